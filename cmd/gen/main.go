package main

import (
	"estate/internal/infra/persistence/model"

	"gorm.io/gen"
)

func main() {
	models := []any{
		model.ListingModel{},
		model.DevelopmentModel{},
		model.DeveloperStatsModel{},
		model.SaleModel{},
	}

	g := gen.NewGenerator(gen.Config{
		OutPath: "./internal/infra/persistence/postgres/query",
		Mode:    gen.WithDefaultQuery | gen.WithQueryInterface,
	})

	g.ApplyBasic(models...)

	g.Execute()
}
