package app

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/altruvue/fundraiser-backend/internal/http/middleware"
	"github.com/altruvue/fundraiser-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg Config, h Handlers) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("fundraiser-backend"))
	router.Use(middleware.CORS())
	router.Use(middleware.AttachTraceContext())
	router.Use(middleware.RequestLogger(log))

	router.GET("/healthcheck", h.Health.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/orgs", h.Org.CreateOrg)
		api.GET("/orgs", h.Org.ListOrgs)

		org := api.Group("/orgs/:orgID")
		{
			org.GET("", h.Org.GetOrg)

			org.POST("/donors", h.Donor.CreateDonor)
			org.GET("/donors", h.Donor.ListDonors)
			org.GET("/donors/:donorID", h.Donor.GetDonor)
			org.PATCH("/donors/:donorID", h.Donor.UpdateDonor)
			org.DELETE("/donors/:donorID", h.Donor.DeleteDonor)

			org.POST("/donors/:donorID/exclusion-tags", h.Donor.AddExclusionTag)
			org.GET("/donors/:donorID/exclusion-tags", h.Donor.ListExclusionTags)
			org.DELETE("/exclusion-tags/:tagID", h.Donor.RemoveExclusionTag)

			org.POST("/donations", h.Donation.RecordDonation)
			org.GET("/donations", h.Donation.ListDonations)

			org.POST("/campaigns", h.Campaign.CreateCampaign)
			org.GET("/campaigns", h.Campaign.ListCampaigns)
			org.GET("/campaigns/:campaignID", h.Campaign.GetCampaign)
			org.PATCH("/campaigns/:campaignID", h.Campaign.UpdateCampaign)
			priority := org.Group("/priority")
			{
				priority.GET("/opportunities", h.Priority.ListOpportunities)
				priority.GET("/donors/:donorID", h.Priority.GetDonorScore)
				priority.POST("/refresh", h.Priority.EnqueueRefresh)
				priority.GET("/generations", h.Priority.ListGenerations)
			}

			analytics := org.Group("/analytics")
			{
				analytics.GET("/campaigns/:campaignID/progress", h.Campaign.CampaignProgress)
				analytics.GET("/donor-levels", h.Analytics.LevelDistribution)
				analytics.GET("/retention", h.Analytics.Retention)
			}

			org.GET("/jobs/:jobID", h.Job.GetJob)
		}
	}

	return router
}
