package router

import (
	"github.com/gin-gonic/gin"

	"coffeemesh/internal/interfaces/http/handler"
)

func RegisterOrderRoutes(r *gin.Engine, orderHandler *handler.OrderHandler) {
	orders := r.Group("/orders")
	{
		orders.GET("", orderHandler.GetOrders)
		orders.POST("", orderHandler.CreateOrder)
		orders.GET("/:order_id", orderHandler.GetOrder)
		orders.PUT("/:order_id", orderHandler.UpdateOrder)
		orders.DELETE("/:order_id", orderHandler.DeleteOrder)
		orders.POST("/:order_id/pay", orderHandler.PayOrder)
		orders.POST("/:order_id/cancel", orderHandler.CancelOrder)
	}
}

func RegisterKitchenRoutes(r *gin.Engine, scheduleHandler *handler.ScheduleHandler) {
	kitchen := r.Group("/kitchen")
	{
		kitchen.GET("/schedules", scheduleHandler.GetSchedules)
		kitchen.POST("/schedules", scheduleHandler.CreateSchedule)
		kitchen.GET("/schedules/:schedule_id", scheduleHandler.GetSchedule)
		kitchen.POST("/schedules/:schedule_id", scheduleHandler.UpdateSchedule)
		kitchen.DELETE("/schedules/:schedule_id", scheduleHandler.DeleteSchedule)
		kitchen.POST("/schedules/:schedule_id/cancel", scheduleHandler.CancelSchedule)
		kitchen.GET("/schedules/:schedule_id/status", scheduleHandler.GetScheduleStatus)
	}
}
