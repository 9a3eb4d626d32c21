package api

import (
	"context"
	"time"

	"github.com/rankforge/site-backend/auth"
	"github.com/rankforge/site-backend/database"
	"github.com/rankforge/site-backend/models"
	"github.com/rankforge/site-backend/services"
	"github.com/rankforge/site-backend/storage"
)

// ArticleStore is the persistence the article routes need.
type ArticleStore interface {
	FindAll(ctx context.Context, filter database.ArticleFilter) ([]models.ArticleListItem, int64, error)
	FindByID(ctx context.Context, id uint) (*models.Article, error)
	Add(ctx context.Context, article *models.Article) error
	Update(ctx context.Context, id uint, changes map[string]any) error
	Delete(ctx context.Context, id uint) error
	SlugTaken(ctx context.Context, slug string, excludeID uint) (bool, error)
	CountByAuthor(ctx context.Context, authorID uint) (int64, error)
	CountByCategory(ctx context.Context, categoryID uint) (int64, error)
}

type AuthorStore interface {
	FindAll(ctx context.Context) ([]models.AuthorWithCounts, error)
	FindByID(ctx context.Context, id uint) (*models.AuthorWithCounts, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Add(ctx context.Context, author *models.Author) error
	Update(ctx context.Context, id uint, changes map[string]any) error
	Delete(ctx context.Context, id uint) error
	SlugTaken(ctx context.Context, slug string, excludeID uint) (bool, error)
	EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error)
}

type CategoryStore interface {
	FindAll(ctx context.Context) ([]models.CategoryWithCounts, error)
	FindByID(ctx context.Context, id uint) (*models.CategoryWithCounts, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Add(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, id uint, changes map[string]any) error
	Delete(ctx context.Context, id uint) error
	SlugTaken(ctx context.Context, slug string, excludeID uint) (bool, error)
}

type ImageStore interface {
	FindAll(ctx context.Context) ([]models.Image, error)
	FindByID(ctx context.Context, id uint) (*models.Image, error)
	Add(ctx context.Context, image *models.Image) error
	Update(ctx context.Context, id uint, changes map[string]any) error
	DeleteWith(ctx context.Context, id uint, removeFile func(models.Image) error) error
}

type RedirectionStore interface {
	FindAll(ctx context.Context) ([]models.Redirection, error)
	FindByID(ctx context.Context, id uint) (*models.Redirection, error)
	FindByFromPath(ctx context.Context, path string) (*models.Redirection, error)
	Add(ctx context.Context, redirection *models.Redirection) error
	Update(ctx context.Context, id uint, changes map[string]any) error
	Delete(ctx context.Context, id uint) error
	FromPathTaken(ctx context.Context, path string, excludeID uint) (bool, error)
}

// MediaStorage stores uploaded bytes and removes them again.
type MediaStorage interface {
	Store(ctx context.Context, up storage.Upload) (*storage.StoredFile, error)
	Remove(ctx context.Context, filename string) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type TokenIssuer interface {
	Issue(subject string) (token string, expiresAt time.Time, err error)
}

type Mailer interface {
	Send(ctx context.Context, email services.Email) error
}

type CaptchaVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

type Notifier interface {
	Notify(ctx context.Context, body string) error
}

type MetaTagSuggester interface {
	Suggest(ctx context.Context, title, content string, keywords []string) (*services.MetaTags, error)
}

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Articles     ArticleStore
	Authors      AuthorStore
	Categories   CategoryStore
	Images       ImageStore
	Redirections RedirectionStore
	Health       Pinger

	Media     MediaStorage
	UploadDir string // served under /uploads when set

	Authenticator auth.Authenticator
	Tokens        TokenIssuer
	Credentials   auth.Credentials

	Mailer     Mailer
	Recaptcha  CaptchaVerifier
	SMS        Notifier
	MetaTags   MetaTagSuggester
	Recipients []string

	// OutboundTimeout bounds each call to a third-party service. Defaults to 10s.
	OutboundTimeout time.Duration

	Now func() time.Time
}

// FromDatabase fills the stores from the repositories of db.
func (d Dependencies) FromDatabase(db database.Database) Dependencies {
	d.Articles = db.ArticleRepo()
	d.Authors = db.AuthorRepo()
	d.Categories = db.CategoryRepo()
	d.Images = db.ImageRepo()
	d.Redirections = db.RedirectionRepo()
	d.Health = db
	return d
}

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	articleHandler     articleHandler
	authorHandler      authorHandler
	categoryHandler    categoryHandler
	imageHandler       imageHandler
	redirectionHandler redirectionHandler
	authHandler        authHandler
	publicHandler      publicHandler
}
