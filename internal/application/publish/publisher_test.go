package publish

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-ops-api/internal/domain/entity"
	"blog-ops-api/internal/domain/repository"
	apperrors "blog-ops-api/pkg/errors"
)

type fakeDraftRepo struct {
	drafts   map[string]*entity.ArticleDraft
	statuses map[string]entity.DraftStatus
}

func (f *fakeDraftRepo) Create(_ context.Context, d *entity.ArticleDraft) error { return nil }
func (f *fakeDraftRepo) GetByID(_ context.Context, id string) (*entity.ArticleDraft, error) {
	return f.drafts[id], nil
}
func (f *fakeDraftRepo) Update(_ context.Context, d *entity.ArticleDraft) error { return nil }
func (f *fakeDraftRepo) Delete(_ context.Context, id string) error              { return nil }
func (f *fakeDraftRepo) List(_ context.Context, _ *repository.DraftFilter, _ repository.Pagination) (*repository.PagedResult[*entity.ArticleDraft], error) {
	return nil, nil
}
func (f *fakeDraftRepo) UpdateStatus(_ context.Context, id string, status entity.DraftStatus) error {
	if f.statuses == nil {
		f.statuses = map[string]entity.DraftStatus{}
	}
	f.statuses[id] = status
	return nil
}

type fakePostRepo struct {
	existing map[string]bool
	created  []*entity.BlogPost
}

func (f *fakePostRepo) Create(_ context.Context, p *entity.BlogPost) error {
	f.created = append(f.created, p)
	return nil
}
func (f *fakePostRepo) GetBySlug(_ context.Context, _ string) (*entity.BlogPost, error) {
	return nil, nil
}
func (f *fakePostRepo) List(_ context.Context, _ repository.Pagination) (*repository.PagedResult[*entity.BlogPost], error) {
	return nil, nil
}
func (f *fakePostRepo) ExistsBySlug(_ context.Context, slug string) (bool, error) {
	return f.existing[slug], nil
}

type fakeTopicRepo struct {
	statuses map[string]entity.TopicStatus
}

func (f *fakeTopicRepo) Create(_ context.Context, _ *entity.Topic) error { return nil }
func (f *fakeTopicRepo) GetByID(_ context.Context, _ string) (*entity.Topic, error) {
	return nil, nil
}
func (f *fakeTopicRepo) Update(_ context.Context, _ *entity.Topic) error { return nil }
func (f *fakeTopicRepo) Delete(_ context.Context, _ string) error        { return nil }
func (f *fakeTopicRepo) List(_ context.Context, _ *repository.TopicFilter, _ repository.Pagination) (*repository.PagedResult[*entity.Topic], error) {
	return nil, nil
}
func (f *fakeTopicRepo) UpdateStatus(_ context.Context, id string, status entity.TopicStatus) error {
	if f.statuses == nil {
		f.statuses = map[string]entity.TopicStatus{}
	}
	f.statuses[id] = status
	return nil
}

type fakeActivityRepo struct {
	logs []*entity.ActivityLog
}

func (f *fakeActivityRepo) Create(_ context.Context, l *entity.ActivityLog) error {
	f.logs = append(f.logs, l)
	return nil
}
func (f *fakeActivityRepo) List(_ context.Context, _ repository.Pagination) (*repository.PagedResult[*entity.ActivityLog], error) {
	return nil, nil
}

type fakeTx struct{}

func (fakeTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeLocker struct {
	held     map[string]bool
	released []string
}

func (f *fakeLocker) SetNX(_ context.Context, key string, _ interface{}, _ time.Duration) (bool, error) {
	if f.held[key] {
		return false, nil
	}
	return true, nil
}
func (f *fakeLocker) Del(_ context.Context, keys ...string) error {
	f.released = append(f.released, keys...)
	return nil
}

type fakeDeploy struct {
	enabled bool
	err     error
	calls   int
}

func (f *fakeDeploy) Enabled() bool { return f.enabled }
func (f *fakeDeploy) Trigger(_ context.Context) error {
	f.calls++
	return f.err
}

func newTestPublisher(draft *entity.ArticleDraft) (*Publisher, *fakePostRepo, *fakeDraftRepo, *fakeTopicRepo, *fakeActivityRepo, *fakeDeploy) {
	draftRepo := &fakeDraftRepo{drafts: map[string]*entity.ArticleDraft{}}
	if draft != nil {
		draftRepo.drafts[draft.ID] = draft
	}
	postRepo := &fakePostRepo{existing: map[string]bool{}}
	topicRepo := &fakeTopicRepo{}
	activityRepo := &fakeActivityRepo{}
	deploy := &fakeDeploy{enabled: true}

	p := NewPublisher(draftRepo, postRepo, topicRepo, activityRepo,
		fakeTx{}, &fakeLocker{held: map[string]bool{}}, deploy)
	return p, postRepo, draftRepo, topicRepo, activityRepo, deploy
}

func testDraft() *entity.ArticleDraft {
	return &entity.ArticleDraft{
		ID:           "draft-1234-5678",
		TopicID:      "topic-1",
		Title:        "Why Hashboards Fail",
		MarkdownBody: "# Heading\n\nSome **bold** text.",
		Status:       entity.DraftStatusDraft,
	}
}

func TestPublish_Success(t *testing.T) {
	p, postRepo, draftRepo, topicRepo, activityRepo, deploy := newTestPublisher(testDraft())

	post, err := p.Publish(context.Background(), "draft-1234-5678", "editor@ops")
	require.NoError(t, err)

	assert.Equal(t, "why-hashboards-fail", post.Slug)
	assert.Equal(t, "Why Hashboards Fail", post.Title)
	assert.Contains(t, post.HTMLBody, "<h1>")
	assert.Contains(t, post.HTMLBody, "<strong>bold</strong>")

	require.Len(t, postRepo.created, 1)
	assert.Equal(t, entity.DraftStatusPublished, draftRepo.statuses["draft-1234-5678"])
	assert.Equal(t, entity.TopicStatusPublished, topicRepo.statuses["topic-1"])

	// 发布与部署各记一条操作日志
	require.Len(t, activityRepo.logs, 2)
	assert.Equal(t, entity.ActivityPublish, activityRepo.logs[0].Action)
	assert.Equal(t, entity.ActivityDeployTrigger, activityRepo.logs[1].Action)
	assert.Equal(t, 1, deploy.calls)
}

func TestPublish_DraftNotFound(t *testing.T) {
	p, _, _, _, _, _ := newTestPublisher(nil)

	_, err := p.Publish(context.Background(), "missing", "editor@ops")
	assert.ErrorIs(t, err, apperrors.ErrDraftNotFound)
}

func TestPublish_AlreadyPublished(t *testing.T) {
	draft := testDraft()
	draft.Status = entity.DraftStatusPublished
	p, _, _, _, _, _ := newTestPublisher(draft)

	_, err := p.Publish(context.Background(), draft.ID, "editor@ops")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyPublished)
}

func TestPublish_EmptyBody(t *testing.T) {
	draft := testDraft()
	draft.MarkdownBody = ""
	p, _, _, _, _, _ := newTestPublisher(draft)

	_, err := p.Publish(context.Background(), draft.ID, "editor@ops")
	require.Error(t, err)
	assert.False(t, errors.Is(err, apperrors.ErrAlreadyPublished))
}

func TestPublish_LockHeldByConcurrentPublish(t *testing.T) {
	draft := testDraft()
	draftRepo := &fakeDraftRepo{drafts: map[string]*entity.ArticleDraft{draft.ID: draft}}
	locker := &fakeLocker{held: map[string]bool{"publish:lock:" + draft.ID: true}}
	p := NewPublisher(draftRepo, &fakePostRepo{}, &fakeTopicRepo{}, &fakeActivityRepo{},
		fakeTx{}, locker, &fakeDeploy{})

	_, err := p.Publish(context.Background(), draft.ID, "editor@ops")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyPublished)
}

func TestPublish_SlugConflictGetsSuffix(t *testing.T) {
	draft := testDraft()
	p, postRepo, _, _, _, _ := newTestPublisher(draft)
	postRepo.existing["why-hashboards-fail"] = true

	post, err := p.Publish(context.Background(), draft.ID, "editor@ops")
	require.NoError(t, err)
	assert.Equal(t, "why-hashboards-fail-draft-12", post.Slug)
}

func TestPublish_DeployFailureDoesNotFailPublish(t *testing.T) {
	draft := testDraft()
	p, postRepo, _, _, activityRepo, deploy := newTestPublisher(draft)
	deploy.err = errors.New("hook unreachable")

	_, err := p.Publish(context.Background(), draft.ID, "editor@ops")
	require.NoError(t, err)
	require.Len(t, postRepo.created, 1)

	// 部署失败时不记部署日志，发布日志保留
	require.Len(t, activityRepo.logs, 1)
	assert.Equal(t, entity.ActivityPublish, activityRepo.logs[0].Action)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "s19-pro-hashboard-not-detected", slugify("S19 Pro hashboard not detected"))
	assert.Equal(t, "hello-world", slugify("  Hello,   World!  "))
	assert.Equal(t, "", slugify("!!!"))
}
