package httpapp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	appmiddleware "photoshare/internal/middleware"
	httprouters "photoshare/internal/transport/http"

	"github.com/arl/statsviz"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

type Server struct {
	m       *http.ServeMux
	log     *slog.Logger
	e       *echo.Echo
	routers *httprouters.Routers
	host    string
	port    string
	token   string
}

func New(log *slog.Logger, token, sessionKey, host, port string, routers *httprouters.Routers) *Server {
	e := echo.New()
	e.HideBanner = true

	validate := validator.New()
	e.Validator = &CustomValidator{validator: validate}

	e.Use(session.Middleware(sessions.NewCookieStore([]byte(sessionKey))))

	e.Use(middleware.CORS())
	e.Use(middleware.Recover())

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("URI", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote ip", v.RemoteIP),
			)

			return nil
		},
	}))

	e.Use(appmiddleware.PrometheusMetrics)

	mux := http.NewServeMux()
	if err := statsviz.Register(mux); err != nil {
		log.Info("Statsviz start with error", slog.Any("error:", err.Error()))
	}

	return &Server{
		m:       mux,
		log:     log,
		e:       e,
		routers: routers,
		host:    host,
		port:    port,
		token:   token,
	}
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info(op, slog.String("Start", "server"))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	if err := s.e.Start(fmt.Sprintf(":%s", s.port)); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop() error {
	const op = "http.Server.Stop"

	optCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	s.log.Info("stopping", op, "http server")

	if err := s.e.Shutdown(optCtx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}

// staffOnlyMiddleware пускает в служебные разделы только персонал,
// авторизация через сессию, которая выставляется при логине.
func (s *Server) staffOnlyMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := session.Get("session", c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "session required"})
		}

		userID, ok := sess.Values["user_id"].(string)
		if !ok || userID == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		}

		parsedUUID, err := uuid.Parse(userID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid user ID format"})
		}

		isStaff, err := s.routers.UserService.IsStaff(c.Request().Context(), parsedUUID)
		if err != nil || !isStaff {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "staff access required"})
		}

		return next(c)
	}
}

func (s *Server) BuildRouters() {
	api := s.e.Group("/api/v1", httprouters.ActorMiddleware(s.token))
	{
		api.POST("/register", s.routers.Register)
		api.POST("/login", s.routers.Login)
		api.POST("/refresh", s.routers.Refresh)
		api.POST("/logout", s.routers.Logout)

		debug := s.e.Group("/debug", s.staffOnlyMiddleware)
		{
			debug.GET("/statsviz/", echo.WrapHandler(s.m))
			debug.GET("/statsviz/*", echo.WrapHandler(s.m))
		}

		s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

		swagger := s.e.Group("/swag")
		{
			swagger.GET("/swagger/*", echoSwagger.WrapHandler)
		}

		userGroup := api.Group("/users")
		userGroup.Use(echojwt.WithConfig(echojwt.Config{
			SigningKey: []byte(s.token),
		}))
		{
			userGroup.GET("/:user_id", s.routers.GetUserByID)
			userGroup.GET("/:user_id/is-staff", s.routers.IsStaffPermission)
		}

		galleryGroup := api.Group("/galleries")
		{
			galleryGroup.GET("", s.routers.ListGalleries)
			galleryGroup.POST("", s.routers.CreateGallery)
			galleryGroup.GET("/:gallery_id", s.routers.GetGallery)
			galleryGroup.PATCH("/:gallery_id", s.routers.UpdateGallery)
			galleryGroup.DELETE("/:gallery_id", s.routers.DeleteGallery)
			galleryGroup.GET("/:gallery_id/related", s.routers.RelatedGalleries)
			galleryGroup.GET("/:gallery_id/photos", s.routers.ListGalleryPhotos)
			galleryGroup.POST("/:gallery_id/photos", s.routers.UploadPhoto)
		}

		photoGroup := api.Group("/photos")
		{
			photoGroup.GET("/:photo_id", s.routers.GetPhoto)
			photoGroup.GET("/:photo_id/download", s.routers.DownloadPhoto)
			photoGroup.DELETE("/:photo_id", s.routers.DeletePhoto)
			photoGroup.POST("/:photo_id/cover", s.routers.SetCover)
			photoGroup.POST("/:photo_id/rate", s.routers.RatePhoto)
		}

		categoryGroup := api.Group("/categories")
		{
			categoryGroup.GET("", s.routers.ListCategories)
			categoryGroup.GET("/top", s.routers.TopCategories)
		}
	}
}
