package endpoint

import (
	"fmt"
	"net/http"

	_ "github.com/ariebrainware/onco-intake/docs"
	"github.com/ariebrainware/onco-intake/middleware"
	"github.com/ariebrainware/onco-intake/util"
	"github.com/ariebrainware/onco-intake/web"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// RouterOptions carries everything the handlers need from startup.
type RouterOptions struct {
	DB        *gorm.DB
	Uploads   *util.UploadStore
	Admin     util.AdminCredential
	LoginRate middleware.RateLimitConfig
	// DisableRequestLog turns off gin's access log, e.g. in tests.
	DisableRequestLog bool
}

// SetupRouter builds the engine with every page, API and docs route.
func SetupRouter(opts RouterOptions) (*gin.Engine, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	router := gin.New()
	if !opts.DisableRequestLog {
		router.Use(gin.Logger())
	}
	router.Use(gin.Recovery())
	router.SetHTMLTemplate(tmpl)
	router.Use(
		middleware.EndpointCallLogger(),
		middleware.DatabaseMiddleware(opts.DB),
		middleware.ServiceMiddleware(opts.Uploads, opts.Admin),
	)

	router.NoRoute(func(c *gin.Context) {
		util.RenderNotFound(c, "Page not found")
	})

	// Public pages
	router.GET("/", ShowIntakeForm)
	router.POST("/", SubmitIntake)
	router.POST("/submit", SubmitIntakeWithFiles)

	loginRate := opts.LoginRate
	if loginRate.OnLimit == nil {
		loginRate.OnLimit = RenderLoginRateLimited
	}
	router.GET("/login", ShowLogin)
	router.POST("/login", middleware.RateLimiter(loginRate), Login)
	router.GET("/logout", Logout)

	// Administrator pages
	admin := router.Group("/", middleware.RequireLogin())
	{
		admin.GET("/records", ListRecords)
		admin.GET("/edit/:id", ShowEditRecord)
		admin.POST("/edit/:id", UpdateRecord)
		admin.GET("/delete/:id", DeleteRecord)
		admin.GET("/add", ShowAddRecord)
		admin.POST("/add", AddRecord)
		admin.GET("/download/:name", DownloadUpload)
	}

	api := router.Group("/api", middleware.CORSMiddleware())
	{
		api.GET("/catalog", GetCatalog)
		api.POST("/assess", Assess)
		api.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })

		records := api.Group("/records", middleware.RequireLogin())
		records.GET("", ListRecordsAPI)
		records.GET("/:id", GetRecordAPI)
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router, nil
}
