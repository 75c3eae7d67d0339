package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/gabriel/reading-tracker/backend/internal/sweep"
)

type SweepRunner interface {
	Run(ctx context.Context, opts sweep.Options) (sweep.Report, error)
}

type SweepsHandler struct {
	updates    SweepRunner
	covers     SweepRunner
	updateOpts sweep.Options
	coverOpts  sweep.Options
}

func NewSweepsHandler(updates SweepRunner, covers SweepRunner, updateOpts sweep.Options, coverOpts sweep.Options) *SweepsHandler {
	return &SweepsHandler{updates: updates, covers: covers, updateOpts: updateOpts, coverOpts: coverOpts}
}

func (h *SweepsHandler) Updates(c *fiber.Ctx) error {
	return h.run(c, h.updates, h.updateOpts)
}

func (h *SweepsHandler) Covers(c *fiber.Ctx) error {
	return h.run(c, h.covers, h.coverOpts)
}

func (h *SweepsHandler) run(c *fiber.Ctx, runner SweepRunner, opts sweep.Options) error {
	report, err := runner.Run(c.Context(), opts)
	if err != nil {
		return storeError(c, err, "sweep failed")
	}
	return c.JSON(report)
}
