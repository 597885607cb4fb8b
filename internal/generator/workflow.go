package generator

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"inkwell/internal/ai"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
	"inkwell/internal/storage"
)

// Run outcomes, recorded as the pipeline_runs metric label.
const (
	OutcomePublished    = "published"
	OutcomeDraftNoImage = "draft_no_image"
	OutcomeAborted      = "aborted"
	OutcomeFailed       = "failed"
)

const (
	subjectSystemPrompt = "You are a creative, reliable SEO editor. Suggest a unique, marketable subject under the main Topic that avoids overlap with the provided recentTitles. Then produce a strong, well-structured prompt to generate content for that subject. Output STRICT JSON with keys ONLY: subject (string), contentPrompt (string)."

	articleSystemPrompt = "You are an expert SEO blog writer. Write for a general audience, 800-1200 words. Output strictly JSON with keys: title, meta_description, tags (array), content (HTML with semantic H1/H2/H3), imageText (short description of a cover image)."
)

// Config tunes the workflow.
type Config struct {
	// RecentTitleCount caps how many published titles feed subject discovery.
	RecentTitleCount int
	// SlugMaxWords caps the words kept when deriving a slug from the title.
	SlugMaxWords int
	// ImageSize is the requested cover dimensions, e.g. "1024x1024".
	ImageSize string
}

// Workflow produces one post from a topic and base prompt. Stages run
// strictly sequentially; each declares its own timeout and failure policy.
// The draft is persisted before the image is attempted, so a failed image
// stage never loses generated text.
type Workflow struct {
	client ai.Client
	posts  repository.PostRepository
	covers storage.CoverStore
	hub    *ProgressHub
	cfg    Config
}

func NewWorkflow(client ai.Client, posts repository.PostRepository, covers storage.CoverStore, hub *ProgressHub, cfg Config) *Workflow {
	if cfg.RecentTitleCount <= 0 {
		cfg.RecentTitleCount = 4
	}
	if cfg.SlugMaxWords <= 0 {
		cfg.SlugMaxWords = 6
	}
	if cfg.ImageSize == "" {
		cfg.ImageSize = "1024x1024"
	}
	return &Workflow{client: client, posts: posts, covers: covers, hub: hub, cfg: cfg}
}

type articleDraft struct {
	Title           string   `json:"title"`
	MetaDescription string   `json:"meta_description"`
	Tags            []string `json:"tags"`
	Content         string   `json:"content"`
	ImageText       string   `json:"imageText"`
}

// run carries state between stages of one invocation.
type run struct {
	topic         string
	basePrompt    string
	subject       string
	contentPrompt string
	article       articleDraft
	post          *models.Post
	imageURL      string
}

// Generate runs the full pipeline and returns the resulting post. On a
// degraded image stage the post is returned in draft status with no images.
func (w *Workflow) Generate(ctx context.Context, topic, basePrompt string) (*models.Post, error) {
	if strings.TrimSpace(topic) == "" || strings.TrimSpace(basePrompt) == "" {
		return nil, models.NewValidationError("Missing topic or base prompt")
	}

	r := &run{topic: topic, basePrompt: basePrompt}
	stages := []Stage{
		w.stage("subject_discovery", 60*time.Second, Abort, r, w.discoverSubject),
		w.stage("article_generation", 120*time.Second, Abort, r, w.generateArticle),
		w.stage("draft_persistence", 10*time.Second, Abort, r, w.persistDraft),
		w.stage("cover_image", 120*time.Second, Degrade, r, w.generateCover),
		w.stage("finalization", 10*time.Second, Abort, r, w.finalize),
	}

	err := runStages(ctx, stages, func(stage string, stageErr error) {
		w.hub.Publish(Event{Stage: stage, Status: StageDegraded, PostID: postID(r), Message: stageErr.Error()})
	})
	outcome := w.settle(ctx, r, err)
	observability.PipelineRuns.WithLabelValues(outcome).Inc()
	w.hub.Publish(Event{Status: RunFinished, PostID: postID(r), Message: outcome})

	if err != nil {
		return r.post, err
	}
	return r.post, nil
}

// settle classifies the run and applies the failed status when finalization
// itself errored. An aborted run before draft persistence leaves no row; an
// image failure leaves a retryable draft.
func (w *Workflow) settle(ctx context.Context, r *run, err error) string {
	if err == nil {
		if r.imageURL == "" {
			return OutcomeDraftNoImage
		}
		return OutcomePublished
	}

	var stageErr *StageError
	if errors.As(err, &stageErr) && stageErr.Stage == "finalization" && r.post != nil {
		r.post.Status = models.StatusFailed
		if markErr := w.posts.Update(ctx, r.post); markErr != nil {
			middleware.Logger.ErrorContext(ctx, "failed to mark post as failed",
				"post_id", r.post.ID, "error", markErr)
		}
		return OutcomeFailed
	}
	return OutcomeAborted
}

func (w *Workflow) stage(name string, timeout time.Duration, policy FailurePolicy, r *run, fn func(ctx context.Context, r *run) error) Stage {
	return Stage{
		Name:    name,
		Timeout: timeout,
		OnError: policy,
		Run: func(ctx context.Context) error {
			w.hub.Publish(Event{Stage: name, Status: StageStarted, PostID: postID(r)})
			err := fn(ctx, r)
			if err != nil {
				if policy == Abort {
					w.hub.Publish(Event{Stage: name, Status: StageFailed, PostID: postID(r), Message: err.Error()})
				}
				return err
			}
			w.hub.Publish(Event{Stage: name, Status: StageCompleted, PostID: postID(r)})
			return nil
		},
	}
}

func (w *Workflow) discoverSubject(ctx context.Context, r *run) error {
	titles, err := w.posts.RecentPublishedTitles(ctx, w.cfg.RecentTitleCount)
	if err != nil {
		return fmt.Errorf("loading recent titles: %w", err)
	}

	user, err := json.MarshalIndent(struct {
		Topic        string   `json:"topic"`
		RecentTitles []string `json:"recentTitles"`
	}{Topic: r.topic, RecentTitles: titles}, "", "  ")
	if err != nil {
		return err
	}

	raw, err := w.client.ChatJSON(ctx, subjectSystemPrompt, string(user))
	if err != nil {
		return models.NewUpstreamError("completion", err)
	}

	var parsed struct {
		Subject       string `json:"subject"`
		ContentPrompt string `json:"contentPrompt"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("parsing subject reply: %w", err)
	}
	if strings.TrimSpace(parsed.Subject) == "" {
		return fmt.Errorf("subject reply missing subject")
	}

	r.subject = parsed.Subject
	r.contentPrompt = parsed.ContentPrompt
	return nil
}

func (w *Workflow) generateArticle(ctx context.Context, r *run) error {
	user := fmt.Sprintf("%s\n\nTopic: %s\nSubject: %s\n\n%s", r.basePrompt, r.topic, r.subject, r.contentPrompt)

	raw, err := w.client.ChatJSON(ctx, articleSystemPrompt, user)
	if err != nil {
		return models.NewUpstreamError("completion", err)
	}
	if err := json.Unmarshal(raw, &r.article); err != nil {
		return fmt.Errorf("parsing article reply: %w", err)
	}

	// A missing title gets a timestamp placeholder; other fields stay empty.
	if strings.TrimSpace(r.article.Title) == "" {
		r.article.Title = fmt.Sprintf("AI Post %d", time.Now().UnixMilli())
	}
	if r.article.Tags == nil {
		r.article.Tags = []string{}
	}
	return nil
}

func (w *Workflow) persistDraft(ctx context.Context, r *run) error {
	post := &models.Post{
		Slug:            models.Slugify(r.article.Title, w.cfg.SlugMaxWords),
		Title:           r.article.Title,
		MetaDescription: r.article.MetaDescription,
		Tags:            r.article.Tags,
		ContentHTML:     r.article.Content,
		Images:          []string{},
		Status:          models.StatusDraft,
	}
	if err := w.posts.Create(ctx, post); err != nil {
		return fmt.Errorf("persisting draft: %w", err)
	}
	r.post = post
	return nil
}

func (w *Workflow) generateCover(ctx context.Context, r *run) error {
	caption := strings.TrimSpace(r.article.ImageText)
	if len(caption) < 8 {
		caption = "Blog cover illustration for " + r.post.Title
	}

	img, err := w.client.GenerateImage(ctx, caption, w.cfg.ImageSize)
	if err != nil {
		return models.NewUpstreamError("image", err)
	}

	if img.B64 != "" {
		data, err := base64.StdEncoding.DecodeString(img.B64)
		if err != nil {
			return fmt.Errorf("decoding image payload: %w", err)
		}
		cover, err := w.covers.SaveCover(ctx, r.post.ID, data)
		if err != nil {
			return fmt.Errorf("storing cover: %w", err)
		}
		r.imageURL = cover.URL
		return nil
	}

	// Provider-hosted URLs expire, so re-host the bytes locally. The hosted
	// URL still works for a while if the download or save fails.
	data, err := storage.Download(ctx, img.URL)
	if err == nil {
		var cover *storage.Cover
		cover, err = w.covers.SaveCover(ctx, r.post.ID, data)
		if err == nil {
			r.imageURL = cover.URL
			return nil
		}
	}
	middleware.Logger.WarnContext(ctx, "could not re-host cover image, keeping hosted URL",
		"post_id", r.post.ID, "error", err)
	r.imageURL = img.URL
	return nil
}

func (w *Workflow) finalize(ctx context.Context, r *run) error {
	if r.imageURL == "" {
		// Image stage degraded: the post stays a retryable draft.
		return nil
	}
	r.post.Images = []string{r.imageURL}
	r.post.Status = models.StatusPublished
	if err := w.posts.Update(ctx, r.post); err != nil {
		return fmt.Errorf("publishing post: %w", err)
	}
	return nil
}

func postID(r *run) uint {
	if r.post == nil {
		return 0
	}
	return r.post.ID
}
