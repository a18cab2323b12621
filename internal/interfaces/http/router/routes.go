// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, h Handlers) {
	// 文章生成
	articles := v1.Group("/articles")
	{
		articles.POST("/generate", h.Generate.GenerateArticle)
		articles.POST("/consensus", h.Generate.GenerateConsensus)
	}

	// 阶段管理
	phases := v1.Group("/phases")
	{
		phases.GET("", h.Taxonomy.ListPhases)
		phases.POST("", h.Taxonomy.CreatePhase)
		phases.PUT("/:id", h.Taxonomy.UpdatePhase)
		phases.DELETE("/:id", h.Taxonomy.DeletePhase)
		phases.GET("/:id/categories", h.Taxonomy.ListCategories)
	}

	// 分类管理
	categories := v1.Group("/categories")
	{
		categories.POST("", h.Taxonomy.CreateCategory)
		categories.DELETE("/:id", h.Taxonomy.DeleteCategory)
		categories.GET("/:id/subcategories", h.Taxonomy.ListSubcategories)
	}

	// 子分类管理
	subcategories := v1.Group("/subcategories")
	{
		subcategories.POST("", h.Taxonomy.CreateSubcategory)
		subcategories.DELETE("/:id", h.Taxonomy.DeleteSubcategory)
	}

	// 选题管理
	topics := v1.Group("/topics")
	{
		topics.GET("", h.Taxonomy.ListTopics)
		topics.POST("", h.Taxonomy.CreateTopic)
		topics.GET("/:id", h.Taxonomy.GetTopic)
		topics.PUT("/:id", h.Taxonomy.UpdateTopic)
		topics.DELETE("/:id", h.Taxonomy.DeleteTopic)
	}

	// 草稿管理与发布
	drafts := v1.Group("/drafts")
	{
		drafts.GET("", h.Draft.List)
		drafts.POST("", h.Draft.Create)
		drafts.GET("/:id", h.Draft.Get)
		drafts.PUT("/:id", h.Draft.Update)
		drafts.DELETE("/:id", h.Draft.Delete)
		drafts.POST("/:id/publish", h.Draft.Publish)
	}

	// 已发布文章
	posts := v1.Group("/posts")
	{
		posts.GET("", h.Post.List)
		posts.GET("/:slug", h.Post.GetBySlug)
	}

	// 研究搜索
	research := v1.Group("/research")
	{
		research.POST("/search", h.Search.Search)
	}

	// 操作日志
	activity := v1.Group("/activity")
	{
		activity.GET("", h.Activity.List)
	}
}
