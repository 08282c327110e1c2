package app

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/emprendia/emprendia/internal/mediastore"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// orphanGrace is how old an unreferenced file must be before the sweep
// removes it. In-flight uploads are referenced within seconds; anything this
// old was left behind by a crash.
const orphanGrace = 24 * time.Hour

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	if loc == nil {
		loc = time.Local
	}
	a.sched = cron.New(cron.WithParser(cronParser), cron.WithLocation(loc))

	spec := a.appConfig.Purge.Spec
	if spec == "" {
		spec = "@daily"
	}
	_, err := a.sched.AddFunc(spec, func() {
		if err := a.RunPurgeNow(); err != nil {
			zap.L().Error("retention purge failed", zap.Error(err))
		}
		if err := a.RunOrphanSweepNow(); err != nil {
			zap.L().Error("orphan media sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		zap.S().Errorf("failed to schedule purge job: %v", err)
		return
	}
	a.sched.Start()
	zap.S().Infof("purge job scheduled: %s", spec)
}

// RunPurgeNow hard-deletes resources soft-deleted longer ago than the
// retention window, removing their media and favorites with them.
func (a *Application) RunPurgeNow() error {
	ctx := context.Background()
	retention := a.appConfig.Purge.RetentionDays
	if retention <= 0 {
		retention = 30
	}
	cutoff := time.Now().AddDate(0, 0, -retention)

	products, err := a.products.ListDeletedBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	for i := range products {
		if err := a.manager.PurgeProduct(ctx, &products[i]); err != nil {
			zap.L().Error("product purge failed",
				zap.Int64("id", products[i].ID), zap.Error(err))
			continue
		}
		zap.L().Info("purged product", zap.Int64("id", products[i].ID))
	}

	services, err := a.services.ListDeletedBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	for i := range services {
		if err := a.manager.PurgeService(ctx, &services[i]); err != nil {
			zap.L().Error("service purge failed",
				zap.Int64("id", services[i].ID), zap.Error(err))
			continue
		}
		zap.L().Info("purged service", zap.Int64("id", services[i].ID))
	}
	return nil
}

// RunOrphanSweepNow removes stored files no row references. Media rollback
// already cleans up on request failure; the sweep catches files stranded by
// a crash between store and persist.
func (a *Application) RunOrphanSweepNow() error {
	ctx := context.Background()

	referenced, err := a.products.AllMediaRefs(ctx)
	if err != nil {
		return err
	}
	serviceRefs, err := a.services.AllMediaRefs(ctx)
	if err != nil {
		return err
	}
	for ref := range serviceRefs {
		referenced[ref] = struct{}{}
	}

	buckets := []string{
		mediastore.BucketProductMain,
		mediastore.BucketProductGallery,
		mediastore.BucketServiceMain,
		mediastore.BucketServiceGallery,
	}
	now := time.Now()
	removed := 0
	for _, bucket := range buckets {
		refs, err := a.media.ListBucket(bucket)
		if err != nil {
			return err
		}
		for _, ref := range refs {
			if _, ok := referenced[ref]; ok {
				continue
			}
			info, err := a.media.Stat(ref)
			if err != nil || now.Sub(info.ModTime()) < orphanGrace {
				continue
			}
			if err := a.media.Delete(ref); err != nil {
				zap.L().Error("orphan delete failed", zap.String("ref", ref), zap.Error(err))
				continue
			}
			removed++
		}
	}
	if removed > 0 {
		zap.S().Infof("orphan media sweep removed %d files", removed)
	}
	return nil
}
