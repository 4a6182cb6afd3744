package main

import (
	"io"
	"log"
	"math"
	"net/http"
	"os"
	"path"

	"github.com/covalenthq/lumberjack"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"tourx/src/boot"
	"tourx/src/middlewares"
	"tourx/src/utils"
)

// price2dp accepts monetary amounts with at most 2 fraction digits, the
// precision the minor-unit conversion is exact for.
var price2dp validator.Func = func(fl validator.FieldLevel) bool {
	price, ok := fl.Field().Interface().(float64)
	if !ok {
		return false
	}
	cents := price * 100
	return math.Abs(cents-math.Round(cents)) < 1e-6
}

func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("price2dp", price2dp)
	}
}

func setupRouter() *gin.Engine {
	router := gin.Default()
	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, "Tour X server is running")
	})
	return router
}

func publicGroup(g *gin.Engine) *gin.RouterGroup {
	return g.Group("")
}

func authorizedGroup(g *gin.Engine) *gin.RouterGroup {
	authorized := g.Group("")
	authorized.Use(middlewares.AuthMiddleware)
	return authorized
}

func guestAuthRoutes(g *gin.Engine) *gin.RouterGroup {
	guest := publicGroup(g)
	guest.
		POST("/jwt", func(ctx *gin.Context) {
			var body struct {
				Email string `json:"email" binding:"required,email"`
				Name  string `json:"name"`
			}
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			token, err := utils.GenerateJWT(body.Email, body.Name)
			if err != nil {
				log.Printf("Error generating JWT token: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"token": token})
		})
	return guest
}

func registerRoutes(router *gin.Engine) {
	guestAuthRoutes(router)

	public := publicGroup(router)
	userPublicRoutes(public)
	packagePublicRoutes(public)
	guidePublicRoutes(public)
	reviewPublicRoutes(public)
	bookingHandlers(public)

	authorized := authorizedGroup(router)
	userHandlers(authorized)
	packageHandlers(authorized)
	guideHandlers(authorized)
	paymentHandlers(authorized)
	statsHandlers(authorized)
}

func initLogger() {
	cwd, _ := os.Getwd()
	serverLogs := path.Join(cwd, "logs", "server.log")
	apiLogs := path.Join(cwd, "logs", "api.log")
	gin.ForceConsoleColor()

	f, _ := os.Create(apiLogs)
	gin.DefaultWriter = io.MultiWriter(f, os.Stdout)
	log.SetOutput(&lumberjack.Logger{
		Filename:   serverLogs,
		MaxSize:    500,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	})
}

func main() {
	if utils.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}
	apiEnv := os.Getenv("API_ENV")
	if apiEnv == "local" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			panic(err)
		}
	}
	initLogger()

	boot.InitDb()
	boot.InitScheduler()
	defer boot.StopScheduler()

	router := setupRouter()
	if apiEnv == "local" {
		router.Use(cors.Default())
	} else {
		cc := cors.DefaultConfig()
		cc.AllowMethods = append(cc.AllowMethods, "PATCH", "DELETE")
		cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization")
		cc.AllowAllOrigins = true
		router.Use(cors.New(cc))
	}

	registerValidations()
	registerRoutes(router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}
	log.Printf("Tour X Server is running on port %s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server error: %s\n", err.Error())
	}
}
