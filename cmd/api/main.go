package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"shopapi/internal/config"
	"shopapi/internal/domain/model"
	"shopapi/internal/handler"
	"shopapi/internal/infra/db"
	infraRepo "shopapi/internal/infra/repository"
	"shopapi/internal/logger"
	"shopapi/internal/server"
	"shopapi/internal/usecase"
)

const accessTokenTTL = 15 * time.Minute

func main() {
	//.envはローカル開発用。無ければ環境変数だけで動く。
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := logger.New(cfg.GoEnv == "dev")
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync()

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		zlog.Fatal("db connect failed", zap.Error(err))
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Shop{},
		&model.Category{},
		&model.Product{},
		&model.ProductVariant{},
		&model.ProductGallery{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		zlog.Fatal("migrate failed", zap.Error(err))
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	shopRepo := infraRepo.NewShopGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	variantRepo := infraRepo.NewVariantGormRepository(gormDB)
	galleryRepo := infraRepo.NewGalleryGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	cartItemRepo := infraRepo.NewCartItemGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//Usecase生成
	authUC := usecase.NewAuthUsecase(userRepo, cfg.JWTSecret, accessTokenTTL)
	shopUC := usecase.NewShopUsecase(shopRepo)
	categoryUC := usecase.NewCategoryUsecase(categoryRepo)
	productUC := usecase.NewProductUsecase(productRepo, variantRepo, galleryRepo, shopRepo, categoryRepo)
	cartUC := usecase.NewCartUsecase(txManager, cartRepo, cartItemRepo)
	orderUC := usecase.NewOrderUsecase(txManager, orderRepo, orderItemRepo, zlog)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager, zlog)

	//Handler生成
	handlers := server.Handlers{
		Auth:       handler.NewAuthHandler(authUC),
		Shop:       handler.NewShopHandler(shopUC),
		Category:   handler.NewCategoryHandler(categoryUC),
		Product:    handler.NewProductHandler(productUC),
		Cart:       handler.NewCartHandler(cartUC),
		Order:      handler.NewOrderHandler(orderUC),
		AdminOrder: handler.NewAdminOrderHandler(adminOrderUC),
	}

	//Server起動
	e := server.New(cfg, zlog, handlers)
	zlog.Info("server starting", zap.String("port", cfg.Port))
	if err := server.Start(e, cfg.Port); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
