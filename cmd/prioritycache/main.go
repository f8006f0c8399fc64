package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/altruvue/fundraiser-backend/internal/app"
	types "github.com/altruvue/fundraiser-backend/internal/domain"
	"github.com/altruvue/fundraiser-backend/internal/platform/dbctx"
)

type orgList []string

func (l *orgList) String() string { return strings.Join(*l, ",") }
func (l *orgList) Set(v string) error {
	v = strings.TrimSpace(v)
	if v != "" {
		*l = append(*l, v)
	}
	return nil
}

// Rebuilds the priority cache for one or more organizations without going
// through the job queue. Useful for backfills and one-off reruns.
func main() {
	var orgs orgList
	var all bool
	var runAtRaw string
	flag.Var(&orgs, "org", "organization id or slug (repeatable)")
	flag.BoolVar(&all, "all", false, "refresh every active organization")
	flag.StringVar(&runAtRaw, "run-at", "", "anchor timestamp for the giving windows (RFC3339, default now)")
	flag.Parse()

	if !all && len(orgs) == 0 {
		fmt.Println("nothing to do: pass -org or -all")
		os.Exit(1)
	}

	runAt := time.Now().UTC()
	if runAtRaw != "" {
		parsed, err := time.Parse(time.RFC3339, runAtRaw)
		if err != nil {
			fmt.Printf("invalid -run-at %q: %v\n", runAtRaw, err)
			os.Exit(1)
		}
		runAt = parsed.UTC()
	}

	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}

	var rows []*types.Organization
	if all {
		rows, err = application.Repos.Organization.ListActive(dbc)
		if err != nil {
			fmt.Printf("list organizations: %v\n", err)
			os.Exit(1)
		}
	} else {
		for _, ref := range orgs {
			org, err := resolveOrg(application, dbc, ref)
			if err != nil {
				fmt.Printf("resolve org %q: %v\n", ref, err)
				os.Exit(1)
			}
			rows = append(rows, org)
		}
	}

	failed := 0
	for _, org := range rows {
		if org == nil || org.ID == uuid.Nil {
			continue
		}
		report, err := application.Services.PriorityCache.RefreshOrganization(ctx, org.ID, runAt)
		if err != nil {
			failed++
			fmt.Printf("refresh failed org=%s: %v\n", org.Slug, err)
			continue
		}
		fmt.Printf("refreshed org=%s generation=%s donors=%d skipped=%d took=%s\n",
			org.Slug, report.GenerationID.String(), report.DonorCount, report.SkippedCount, report.Duration)
	}

	fmt.Printf("done; refreshed=%d failed=%d\n", len(rows)-failed, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func resolveOrg(application *app.App, dbc dbctx.Context, ref string) (*types.Organization, error) {
	if id, err := uuid.Parse(ref); err == nil && id != uuid.Nil {
		return application.Repos.Organization.GetByID(dbc, id)
	}
	return application.Repos.Organization.GetBySlug(dbc, ref)
}
