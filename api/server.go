package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/healthinsights/health-insights-backend/usecases"
)

func NewServer(router *gin.Engine, conf Configuration, uc usecases.Usecases) (*http.Server, error) {
	if err := addRoutes(router, conf, uc); err != nil {
		return nil, err
	}

	// Add 5 seconds to the server timeout to gracefully handle the timeout in our code
	maxTimeout := conf.RequestTimeout + 5*time.Second

	return &http.Server{
		Addr:              fmt.Sprintf("%s:%s", conf.Host, conf.Port),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      maxTimeout,
		ReadTimeout:       maxTimeout,
		IdleTimeout:       maxTimeout,
		Handler:           h2c.NewHandler(router, &http2.Server{}),
	}, nil
}
