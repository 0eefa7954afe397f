// Package scheduler runs background maintenance loops for the application.
package scheduler

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	businessflow "github.com/pagereach/pagereach/business_flow"
)

var (
	pollerRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pagereach",
		Name:      "campaign_poller_runs_total",
		Help:      "Total number of campaign poller sweeps",
	})

	campaignsCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pagereach",
		Name:      "campaigns_completed_total",
		Help:      "Total number of campaigns transitioned to completed by the poller",
	})
)

// CampaignPoller periodically sweeps active campaigns whose run window has
// elapsed and transitions them to completed
type CampaignPoller struct {
	campaignFlow businessflow.SponsoredCampaignFlow
	logger       *log.Logger
	interval     time.Duration

	logFile *os.File
}

func NewCampaignPoller(campaignFlow businessflow.SponsoredCampaignFlow, interval time.Duration) *CampaignPoller {
	if interval <= 0 {
		interval = time.Minute
	}

	p := &CampaignPoller{
		campaignFlow: campaignFlow,
		interval:     interval,
	}

	// Poller-specific logger (to stdout and persistent file)
	if err := p.initPollerLogger(); err != nil {
		p.logger = log.Default()
		p.logger.Printf("poller: failed to initialize file logger: %v", err)
	}

	return p
}

// initPollerLogger configures a logger that writes to both stdout and a persistent file under data/ (or /data)
func (p *CampaignPoller) initPollerLogger() error {
	candidates := []string{
		filepath.Join("data"),
		"/data",
	}
	for _, dir := range candidates {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			continue
		}
		logPath := filepath.Join(dir, "poller.log")
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			continue
		}
		p.logFile = f
		mw := io.MultiWriter(os.Stdout, f)
		p.logger = log.New(mw, "poller ", log.LstdFlags|log.Lmicroseconds|log.LUTC)
		return nil
	}
	return fmt.Errorf("could not create poller log file in any candidate directory")
}

// Start launches the poller loop in a background goroutine and returns a stop function
func (p *CampaignPoller) Start(parent context.Context) func() {
	ctx, cancel := context.WithCancel(parent)

	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		p.runOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.runOnce(ctx)
			}
		}
	}()

	return func() {
		cancel()
		if p.logFile != nil {
			_ = p.logFile.Close()
		}
	}
}

func (p *CampaignPoller) runOnce(ctx context.Context) {
	pollerRunsTotal.Inc()

	sweepCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	completed, err := p.campaignFlow.CompleteExpiredCampaigns(sweepCtx)
	if err != nil {
		p.logger.Printf("poller: complete expired campaigns failed: %v", err)
		return
	}
	if completed > 0 {
		campaignsCompletedTotal.Add(float64(completed))
		p.logger.Printf("poller: completed %d expired campaigns", completed)
	}
}
