package generate

import (
	"fmt"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
)

func init() {
	register(domain.EntityProductPortfolio, generateProductPortfolios)
	register(domain.EntityProduct, generateProducts)
}

var portfolioNames = []string{"Core Platform", "Enterprise Suite", "Mobile Offerings", "Data & Analytics", "Emerging Products"}

func generateProductPortfolios(c *GenerationContext, count int) ([]domain.Entity, error) {
	selected := PickN(c, portfolioNames, count)
	out := make([]domain.Entity, 0, count)
	for i := 0; i < count; i++ {
		name := fmt.Sprintf("Portfolio %d", i+1)
		if i < len(selected) {
			name = selected[i]
		}
		e := c.NewEntity(domain.EntityProductPortfolio, name)
		e.Description = fmt.Sprintf("%s product portfolio", name)
		e.Tags = []string{"portfolio"}
		out = append(out, e)
	}
	return out, nil
}

var productLifecycles = []string{"concept", "development", "launched", "mature", "sunset"}
var productLines = []string{"Platform", "Analytics", "Mobile App", "API Gateway", "Reporting Suite", "Billing Module", "Integration Hub"}

func generateProducts(c *GenerationContext, count int) ([]domain.Entity, error) {
	portfolios := c.Entities(domain.EntityProductPortfolio)
	out := make([]domain.Entity, 0, count)
	for i := 0; i < count; i++ {
		name := fmt.Sprintf("%s %d", Pick(c, productLines), i+1)
		var portfolioID string
		if len(portfolios) > 0 {
			portfolioID = Pick(c, portfolios).ID
		}
		e := c.NewEntity(domain.EntityProduct, name)
		e.Description = fmt.Sprintf("%s product offering", name)
		e.Fields["lifecycle_stage"] = Pick(c, productLifecycles)
		e.Fields["portfolio_id"] = portfolioID
		e.Tags = []string{"product"}
		out = append(out, e)
	}
	return out, nil
}
