package main

import (
	"context"
	"errors"
	"foodievent/src/boot"
	"foodievent/src/common"
	"foodievent/src/config"
	"foodievent/src/controllers"
	"foodievent/src/lib"
	"foodievent/src/lifecycle"
	"foodievent/src/middlewares"
	"foodievent/src/repository"
	"foodievent/src/storage"
	"foodievent/src/types"
	"foodievent/src/validation"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"regexp"
	"strconv"

	"github.com/covalenthq/lumberjack"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const apiPrefix = "/api/v1"

// App holds the wired dependencies shared by the route groups.
type App struct {
	Config       config.Config
	Store        repository.Store
	Engine       *lifecycle.Engine
	Auth         *controllers.AuthController
	Events       *controllers.EventController
	Orders       *controllers.OrderController
	Authenticate gin.HandlerFunc
}

func NewApp(cfg config.Config, store repository.Store, files storage.FileStore, hooks lifecycle.Hooks, denylist *lib.TokenDenylist) *App {
	engine := lifecycle.NewEngine(store, hooks)
	v := validation.New(store)

	auth := &controllers.AuthController{
		Users:      store,
		Validator:  v,
		Secret:     cfg.JwtSecret,
		TokenTTL:   cfg.TokenTTL,
		BcryptCost: cfg.BcryptCost,
	}
	var revocations middlewares.Revocations
	if denylist != nil {
		auth.Revoker = denylist
		revocations = denylist
	}

	return &App{
		Config: cfg,
		Store:  store,
		Engine: engine,
		Auth:   auth,
		Events: &controllers.EventController{
			Store:     store,
			Engine:    engine,
			Validator: v,
			Files:     files,
		},
		Orders:       &controllers.OrderController{Orders: store, Engine: engine},
		Authenticate: middlewares.NewAuthMiddleware(cfg.JwtSecret, store, revocations),
	}
}

func setupRouter() *gin.Engine {
	router := gin.Default()
	router.Use(middlewares.SecureHeaders)
	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, "ok")
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return router
}

func maintenanceModeMiddleware(g *gin.Engine) *gin.Engine {
	g.Use(func(ctx *gin.Context) {
		mm := os.Getenv("MAINTENANCE_MODE")
		on, err := strconv.ParseBool(mm)
		if err == nil && on {
			err := errors.New("server is under maintenance")
			log.Println(err.Error())
			ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
	})
	return g
}

func apiv1Group(g *gin.Engine) *gin.RouterGroup {
	apiv1 := g.Group(apiPrefix)
	return apiv1
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.RegisterRules(v)
	}
}

// respondError writes field errors as {"errors": ...}, forbidden outcomes as
// {"message": ...} and everything else as {"error": ...}.
func respondError(ctx *gin.Context, tag string, status int, err error) {
	log.Printf("[%s] error: %s\n", tag, err.Error())
	var fe validation.FieldErrors
	switch {
	case errors.As(err, &fe):
		lib.RecordValidationFailure(tag)
		ctx.JSON(status, gin.H{"errors": fe})
	case status == http.StatusForbidden:
		ctx.JSON(status, gin.H{"message": err.Error()})
	case status >= http.StatusInternalServerError:
		ctx.JSON(status, gin.H{"error": "Something went wrong. Please try again."})
	default:
		ctx.JSON(status, gin.H{"error": err.Error()})
	}
}

func guestAuthRoutes(g *gin.Engine, app *App) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	guest := apiv1.Group("/auth")
	guest.
		POST("/login", func(ctx *gin.Context) {
			token, status, err := app.Auth.Login(ctx)
			if err != nil {
				respondError(ctx, "AuthLogin", status, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"token": token})
		}).
		POST("/register", func(ctx *gin.Context) {
			user, status, err := app.Auth.Register(ctx)
			if err != nil {
				respondError(ctx, "AuthRegister", status, err)
				return
			}
			ctx.JSON(status, gin.H{
				"id":      user.ID,
				"message": "Successfully registered an account for FoodieVent",
			})
		})
	guest.POST("/logout", app.Authenticate, func(ctx *gin.Context) {
		status, err := app.Auth.Logout(ctx)
		if err != nil {
			respondError(ctx, "AuthLogout", status, err)
			return
		}
		ctx.JSON(status, gin.H{"message": "You have been logged out."})
	})
	return guest
}

func initLogger() {
	cwd, _ := os.Getwd()
	logsDir := path.Join(cwd, "logs")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		log.Printf("Could not create logs directory: %s\n", err.Error())
		return
	}
	serverLogs := path.Join(logsDir, "server.log")
	apiLogs := path.Join(logsDir, "api.log")
	gin.ForceConsoleColor()

	f, err := os.Create(apiLogs)
	if err == nil {
		gin.DefaultWriter = io.MultiWriter(f, os.Stdout)
	}
	log.SetOutput(&lumberjack.Logger{
		Filename:   serverLogs,
		MaxSize:    500,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	})
}

func corsMiddleware(cfg config.Config) gin.HandlerFunc {
	if cfg.ApiEnv == types.Local {
		return cors.Default()
	}
	cc := cors.DefaultConfig()
	cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "PATCH", "PUT", "DELETE", "HEAD")
	cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization")
	cc.AllowOriginFunc = func(origin string) bool {
		if cfg.AppHost == "" {
			return false
		}
		match, _ := regexp.MatchString(regexp.QuoteMeta(cfg.AppHost)+"$", origin)
		return match
	}
	cc.AllowCredentials = true
	cc.AllowAllOrigins = false
	return cors.New(cc)
}

func buildRouter(app *App) *gin.Engine {
	router := setupRouter()
	router.Use(corsMiddleware(app.Config))
	registerValidators()
	router = maintenanceModeMiddleware(router)

	guestAuthRoutes(router, app)
	publicEventRoutes(apiv1Group(router), app)

	authorized := router.Group(apiPrefix)
	authorized.Use(app.Authenticate)
	{
		eventHandlers(authorized, app)
		orderHandlers(authorized, app)
	}
	return router
}

func main() {
	apiEnv := types.AppEnv(os.Getenv("API_ENV"))
	if apiEnv == types.Local || apiEnv == "" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			log.Printf("No .env loaded: %s\n", err.Error())
		}
	}
	cfg := config.Load()
	if len(cfg.JwtSecret) == 0 {
		log.Fatal("JWT_SECRET must be set")
	}
	initLogger()
	if cfg.MaintenanceMode {
		log.Println("Starting in maintenance mode, API requests will return 503")
	}
	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	store := repository.NewGormStore(boot.InitDb(cfg))
	files := boot.InitStorage(context.Background(), cfg)
	notifier := common.NewNotifier(boot.InitBroker(cfg), boot.InitMailer(cfg), store, cfg.MailFrom)
	app := NewApp(cfg, store, files, notifier, boot.InitDenylist())

	boot.InitScheduler(app.Engine, cfg.RecomputeEvery)
	defer lib.StopScheduler()

	router := buildRouter(app)
	if local, ok := files.(*storage.LocalStore); ok {
		router.Static(local.URLPrefix, local.Dir)
	}

	log.Printf("Listening on :%s\n", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %s", err.Error())
	}
}
