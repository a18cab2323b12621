// Package publish 实现草稿发布：渲染、落库、触发站点重建
package publish

import (
	"context"
	"fmt"
	"time"

	"blog-ops-api/internal/domain/entity"
	"blog-ops-api/internal/domain/repository"
	"blog-ops-api/pkg/errors"
	"blog-ops-api/pkg/logger"
	"blog-ops-api/pkg/metrics"
)

// publishLockTTL 发布互斥锁有效期，覆盖一次发布事务加部署触发
const publishLockTTL = 10 * time.Minute

// Locker 发布互斥锁，防止并发双发
type Locker interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
}

// DeployTrigger 静态站点重建触发
type DeployTrigger interface {
	Enabled() bool
	Trigger(ctx context.Context) error
}

// Publisher 把草稿发布为公开博客文章
type Publisher struct {
	draftRepo    repository.DraftRepository
	postRepo     repository.PostRepository
	topicRepo    repository.TopicRepository
	activityRepo repository.ActivityRepository
	tx           repository.Transactor
	locker       Locker
	deploy       DeployTrigger
}

// NewPublisher 创建发布器
func NewPublisher(
	draftRepo repository.DraftRepository,
	postRepo repository.PostRepository,
	topicRepo repository.TopicRepository,
	activityRepo repository.ActivityRepository,
	tx repository.Transactor,
	locker Locker,
	deploy DeployTrigger,
) *Publisher {
	return &Publisher{
		draftRepo:    draftRepo,
		postRepo:     postRepo,
		topicRepo:    topicRepo,
		activityRepo: activityRepo,
		tx:           tx,
		locker:       locker,
		deploy:       deploy,
	}
}

// Publish 发布草稿
//
// 渲染与落库在一个事务内完成；部署触发是尽力而为，失败只记日志，
// 不回滚发布。
func (p *Publisher) Publish(ctx context.Context, draftID, actor string) (*entity.BlogPost, error) {
	post, err := p.publish(ctx, draftID, actor)

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.PublishTotal.WithLabelValues(status).Inc()

	return post, err
}

func (p *Publisher) publish(ctx context.Context, draftID, actor string) (*entity.BlogPost, error) {
	draft, err := p.draftRepo.GetByID(ctx, draftID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to get draft")
	}
	if draft == nil {
		return nil, errors.ErrDraftNotFound
	}
	if draft.Status == entity.DraftStatusPublished {
		return nil, errors.ErrAlreadyPublished
	}
	if !draft.IsPublishable() {
		return nil, errors.New(errors.CodePublishFailed, "draft has no content to publish")
	}

	// 互斥锁挡住并发双发，锁获取失败视为已有发布在进行中
	lockKey := "publish:lock:" + draftID
	acquired, err := p.locker.SetNX(ctx, lockKey, actor, publishLockTTL)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeCacheError, "failed to acquire publish lock")
	}
	if !acquired {
		return nil, errors.ErrAlreadyPublished
	}
	defer func() {
		if err := p.locker.Del(ctx, lockKey); err != nil {
			logger.Warn(ctx, "failed to release publish lock", "key", lockKey, "error", err)
		}
	}()

	htmlBody, err := renderMarkdown(draft.MarkdownBody)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodePublishFailed, "failed to render markdown")
	}

	slug, err := p.resolveSlug(ctx, draft)
	if err != nil {
		return nil, err
	}

	post := &entity.BlogPost{
		DraftID:      draft.ID,
		Slug:         slug,
		Title:        draft.Title,
		MarkdownBody: draft.MarkdownBody,
		HTMLBody:     htmlBody,
		PublishedAt:  time.Now(),
	}

	err = p.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := p.postRepo.Create(txCtx, post); err != nil {
			return err
		}
		if err := p.draftRepo.UpdateStatus(txCtx, draft.ID, entity.DraftStatusPublished); err != nil {
			return err
		}
		if draft.TopicID != "" {
			if err := p.topicRepo.UpdateStatus(txCtx, draft.TopicID, entity.TopicStatusPublished); err != nil {
				return err
			}
		}
		return p.activityRepo.Create(txCtx, &entity.ActivityLog{
			Actor:      actor,
			Action:     entity.ActivityPublish,
			TargetType: "blog_post",
			TargetID:   post.Slug,
			Detail:     draft.Title,
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodePublishFailed, "publish transaction failed")
	}

	logger.Info(ctx, "draft published",
		"draft_id", draft.ID, "slug", post.Slug, "actor", actor)

	p.triggerDeploy(ctx, post.Slug, actor)

	return post, nil
}

// resolveSlug 生成唯一 slug，冲突时追加草稿 ID 前缀
func (p *Publisher) resolveSlug(ctx context.Context, draft *entity.ArticleDraft) (string, error) {
	slug := slugify(draft.Title)
	if slug == "" {
		return "", errors.New(errors.CodePublishFailed, "title produced empty slug")
	}

	exists, err := p.postRepo.ExistsBySlug(ctx, slug)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeDatabaseError, "failed to check slug")
	}
	if !exists {
		return slug, nil
	}

	suffix := draft.ID
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return fmt.Sprintf("%s-%s", slug, suffix), nil
}

// triggerDeploy 发布成功后触发重建，失败不影响发布结果
func (p *Publisher) triggerDeploy(ctx context.Context, slug, actor string) {
	if p.deploy == nil || !p.deploy.Enabled() {
		return
	}

	if err := p.deploy.Trigger(ctx); err != nil {
		logger.Warn(ctx, "deploy trigger failed after publish",
			"slug", slug, "error", err)
		return
	}

	if err := p.activityRepo.Create(ctx, &entity.ActivityLog{
		Actor:      actor,
		Action:     entity.ActivityDeployTrigger,
		TargetType: "blog_post",
		TargetID:   slug,
	}); err != nil {
		logger.Warn(ctx, "failed to record deploy activity", "error", err)
	}
}
