package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"countdown_dev_v1_202601/internal/controller"
	"countdown_dev_v1_202601/internal/middleware"
)

// Controllers 控制器集合
type Controllers struct {
	Timer  *controller.TimerController
	Public *controller.PublicTimerController
}

// Options 路由选项
type Options struct {
	// ImpressionCooldown 同一访客对同一计时器的曝光冷却，<=0 关闭
	ImpressionCooldown time.Duration
}

// SetupRouter 注册所有路由
func SetupRouter(ctl *Controllers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	api := r.Group("/api")
	{
		// 公开路由组：无认证，CORS 全开，店铺身份来自声明参数
		// 注意 /public 必须先于后台的 /:id 注册
		public := api.Group("/timers/public")
		public.Use(middleware.CORS())
		{
			public.GET("/impression",
				middleware.ImpressionCooldown(opts.ImpressionCooldown),
				ctl.Public.TrackImpression)
			public.GET("/:productId", ctl.Public.GetPublicTimer)
		}

		// 后台路由组：店铺身份来自已验证的会话令牌
		timers := api.Group("/timers")
		timers.Use(middleware.SessionAuth())
		{
			timers.GET("", ctl.Timer.ListTimers)
			timers.POST("", ctl.Timer.CreateTimer)
			timers.GET("/:id", ctl.Timer.GetTimer)
			timers.PUT("/:id", ctl.Timer.UpdateTimer)
			timers.DELETE("/:id", ctl.Timer.DeleteTimer)
		}
	}

	return r
}
