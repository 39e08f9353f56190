package cron

import (
	"context"
	"log"
	"time"

	"music-svc/internal/service"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

const (
	// refreshLockResource 分析刷新任务的锁资源名
	refreshLockResource = "analytics-refresh"
	// refreshLockTTL 锁TTL，短于刷新周期，持有者崩溃后自动解锁
	refreshLockTTL = 4 * time.Minute
)

// RefreshLocker 多实例部署下刷新任务的互斥锁（redis实现见 pkg/redis）
type RefreshLocker interface {
	AcquireLock(ctx context.Context, resource, owner string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, resource string) error
}

// CronManager 定时任务管理器
type CronManager struct {
	cron        *cron.Cron
	analytics   *service.AnalyticsService
	locker      RefreshLocker // 可为nil，nil时不做实例互斥
	instanceID  string
	refreshSpec string
}

// NewCronManager 创建定时任务管理器
func NewCronManager(analytics *service.AnalyticsService, locker RefreshLocker, refreshSpec string) *CronManager {
	if refreshSpec == "" {
		refreshSpec = "*/5 * * * *"
	}
	return &CronManager{
		cron:        cron.New(cron.WithLocation(time.Local)),
		analytics:   analytics,
		locker:      locker,
		instanceID:  uuid.New().String(),
		refreshSpec: refreshSpec,
	}
}

// Start 启动定时任务
func (m *CronManager) Start() error {
	// 定期预热全局分析缓存，避免管理端请求时现算
	// Cron格式: 分 时 日 月 周
	_, err := m.cron.AddFunc(m.refreshSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		startTime := time.Now()
		if err := m.refresh(ctx); err != nil {
			log.Printf("Analytics refresh job failed: %v", err)
		} else {
			log.Printf("Analytics refresh job completed in %v", time.Since(startTime))
		}
	})
	if err != nil {
		return err
	}

	m.cron.Start()
	log.Printf("Cron manager started - analytics refresh on %q", m.refreshSpec)
	return nil
}

// Stop 停止定时任务
func (m *CronManager) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done() // 等待所有任务完成
	log.Println("Cron manager stopped")
}

// RunRefreshNow 立即刷新全局分析缓存（用于测试或手动触发）
func (m *CronManager) RunRefreshNow(ctx context.Context) error {
	return m.refresh(ctx)
}

// refresh 加锁刷新：多实例部署时同一周期只有一个实例执行
func (m *CronManager) refresh(ctx context.Context) error {
	if m.locker != nil {
		ok, err := m.locker.AcquireLock(ctx, refreshLockResource, m.instanceID, refreshLockTTL)
		if err != nil {
			return err
		}
		if !ok {
			log.Println("Analytics refresh skipped - lock held by another instance")
			return nil
		}
		defer m.locker.ReleaseLock(ctx, refreshLockResource)
	}
	return m.analytics.RefreshGlobalAnalytics(ctx)
}
