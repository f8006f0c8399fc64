package domain

import (
	"github.com/altruvue/fundraiser-backend/internal/domain/campaigns"
	"github.com/altruvue/fundraiser-backend/internal/domain/donors"
	"github.com/altruvue/fundraiser-backend/internal/domain/jobs"
	"github.com/altruvue/fundraiser-backend/internal/domain/marketing"
	"github.com/altruvue/fundraiser-backend/internal/domain/org"
	"github.com/altruvue/fundraiser-backend/internal/domain/scoring"
)

type Organization = org.Organization

type Donor = donors.Donor
type Donation = donors.Donation
type ExclusionTag = donors.ExclusionTag

type Campaign = campaigns.Campaign

type ScoreGeneration = scoring.ScoreGeneration
type PriorityCacheEntry = scoring.PriorityCacheEntry

type AdSpend = marketing.AdSpend

type JobRun = jobs.JobRun

const (
	CampaignStatusDraft     = campaigns.CampaignStatusDraft
	CampaignStatusActive    = campaigns.CampaignStatusActive
	CampaignStatusCompleted = campaigns.CampaignStatusCompleted
	CampaignStatusArchived  = campaigns.CampaignStatusArchived

	GenerationStatusBuilding = scoring.GenerationStatusBuilding
	GenerationStatusCurrent  = scoring.GenerationStatusCurrent
	GenerationStatusRetired  = scoring.GenerationStatusRetired
	GenerationStatusFailed   = scoring.GenerationStatusFailed

	JobTypePriorityCacheRefresh = jobs.JobTypePriorityCacheRefresh
	JobStatusQueued             = jobs.JobStatusQueued
	JobStatusRunning            = jobs.JobStatusRunning
	JobStatusSucceeded          = jobs.JobStatusSucceeded
	JobStatusFailed             = jobs.JobStatusFailed
	JobStatusCanceled           = jobs.JobStatusCanceled
)
