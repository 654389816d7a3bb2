package api

import "github.com/gin-gonic/gin"

func (s *Server) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("/health", health)
		api.POST("/cards/filter", filterHandler)
		api.POST("/cards/document", s.documentHandler)
		api.POST("/grid", s.gridHandler)
		api.POST("/overlay", s.overlayHandler)
		api.GET("/qr", qrHandler)
		api.POST("/sheets", s.sheetsHandler)
	}
}
