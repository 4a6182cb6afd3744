package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"tourx/src/common"
	"tourx/src/db"
	"tourx/src/middlewares"
	"tourx/src/types"
)

func statsHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/user-stats/:email", func(ctx *gin.Context) {
			email := ctx.Param("email")
			stats, err := common.UserStats(ctx.Request.Context(), db.GetStore(), email)
			if err != nil {
				log.Printf("Error computing user stats for %s: %s\n", email, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, stats)
		}).
		GET("/guide-stats/:email", middlewares.RoleMiddleware(types.ROLE_GUIDE), func(ctx *gin.Context) {
			email := ctx.Param("email")
			stats, err := common.GuideStats(ctx.Request.Context(), db.GetStore(), email)
			if err != nil {
				log.Printf("Error computing guide stats for %s: %s\n", email, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, stats)
		}).
		GET("/admin-stats", middlewares.RoleMiddleware(types.ROLE_ADMIN), func(ctx *gin.Context) {
			stats, err := common.AdminStats(ctx.Request.Context(), db.GetStore())
			if err != nil {
				log.Printf("Error computing admin stats: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, stats)
		})
	return g
}
