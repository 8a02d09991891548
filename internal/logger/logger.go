package logger

import "go.uber.org/zap"

// Newはzapロガーを作る。devなら人間向け、それ以外はJSON。
func New(isDev bool) (*zap.Logger, error) {
	if isDev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
