package web

import (
	"context"

	"storefront-web/internal/logger"
	"storefront-web/internal/render"
	"storefront-web/internal/storage"

	"go.uber.org/zap"
)

const flashKey = "toasts"

// flash queues toasts in session storage until the next rendered page.
type flash struct {
	session *storage.Bucket
}

func (f *flash) push(ctx context.Context, t render.Toast) {
	var queued []render.Toast
	f.session.Load(ctx, flashKey, &queued)
	queued = append(queued, t)
	if err := f.session.Save(ctx, flashKey, queued); err != nil {
		logger.FromCtx(ctx).Warn("failed to queue toast", zap.Error(err))
	}
}

func (f *flash) drain(ctx context.Context) []render.Toast {
	var queued []render.Toast
	if !f.session.Load(ctx, flashKey, &queued) {
		return nil
	}
	if err := f.session.Delete(ctx, flashKey); err != nil {
		logger.FromCtx(ctx).Warn("failed to clear toasts", zap.Error(err))
	}
	return queued
}

func (h *Handler) success(ctx context.Context, msg string) { h.flash.push(ctx, render.Success(msg)) }
func (h *Handler) info(ctx context.Context, msg string)    { h.flash.push(ctx, render.Info(msg)) }

func (h *Handler) fail(ctx context.Context, err error, fallback string) {
	h.flash.push(ctx, render.Error(messageFor(err, fallback)))
}
