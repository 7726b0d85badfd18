package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/puyolnw/sales-import-service/controllers"
)

// RegisterRoutes wires the sales import endpoints onto the engine.
func RegisterRoutes(r *gin.Engine, importController *controllers.ImportController) {
	imports := r.Group("/imports")
	{
		imports.POST("/sales/validate", importController.ValidateImport)
		imports.POST("/sales", importController.CreateImport)
		imports.GET("/sales", importController.ListImports)
		imports.GET("/sales/:id", importController.GetImport)
		imports.GET("/jobs/:id", importController.GetImportJobStatus)
	}
}
