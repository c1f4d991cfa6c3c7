package mongoimport

import (
	"math"
	"path"
	"strings"
	"time"

	"github.com/shagor/portfolio-core/internal/models"
	"github.com/shagor/portfolio-core/internal/modules/storage/filearea"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection names as the legacy document store pluralized them.
const (
	CollectionWorks    = "works"
	CollectionBlogs    = "blogs"
	CollectionSkills   = "skills"
	CollectionContacts = "contacts"
	CollectionAdmins   = "admins"
	CollectionCVs      = "cvs"
)

// AllCollections is the import order.
var AllCollections = []string{
	CollectionAdmins,
	CollectionWorks,
	CollectionBlogs,
	CollectionSkills,
	CollectionContacts,
	CollectionCVs,
}

// Timestamps are the fields every legacy schema kept.
type Timestamps struct {
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type workDoc struct {
	ID            primitive.ObjectID `bson:"_id"`
	Title         string             `bson:"title"`
	Category      string             `bson:"category"`
	Image         string             `bson:"image"`
	Likes         float64            `bson:"likes"`
	Link          string             `bson:"link"`
	Description   string             `bson:"description"`
	Role          string             `bson:"role"`
	Tools         []string           `bson:"tools"`
	Features      []string           `bson:"features"`
	LiveDemoURL   string             `bson:"liveDemoUrl"`
	SourceCodeURL string             `bson:"sourceCodeUrl"`
	Timestamps    `bson:",inline"`
}

type blogDoc struct {
	ID         primitive.ObjectID `bson:"_id"`
	Title      string             `bson:"title"`
	Category   string             `bson:"category"`
	ReadTime   string             `bson:"readTime"`
	Excerpt    string             `bson:"excerpt"`
	Date       string             `bson:"date"`
	Image      string             `bson:"image"`
	Content    string             `bson:"content"`
	Timestamps `bson:",inline"`
}

type skillDoc struct {
	ID         primitive.ObjectID `bson:"_id"`
	Name       string             `bson:"name"`
	Percentage float64            `bson:"percentage"`
	Type       string             `bson:"type"`
	Icon       string             `bson:"icon"`
	Timestamps `bson:",inline"`
}

type contactDoc struct {
	ID         primitive.ObjectID `bson:"_id"`
	Name       string             `bson:"name"`
	Phone      string             `bson:"phone"`
	Email      string             `bson:"email"`
	Subject    string             `bson:"subject"`
	Message    string             `bson:"message"`
	Timestamps `bson:",inline"`
}

type adminDoc struct {
	ID         primitive.ObjectID `bson:"_id"`
	Email      string             `bson:"email"`
	Password   string             `bson:"password"` // bcrypt hash, carried over as is
	Timestamps `bson:",inline"`
}

type cvDoc struct {
	ID           primitive.ObjectID `bson:"_id"`
	Filename     string             `bson:"filename"`
	OriginalName string             `bson:"originalName"`
	Path         string             `bson:"path"`
	Size         int64              `bson:"size"`
	MimeType     string             `bson:"mimeType"`
	UploadedAt   time.Time          `bson:"uploadedAt"`
	Timestamps   `bson:",inline"`
}

func base(id primitive.ObjectID, ts Timestamps) models.Base {
	return models.Base{ID: id.Hex(), CreatedAt: ts.CreatedAt, UpdatedAt: ts.UpdatedAt}
}

func wholeNumber(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Round(v))
}

func orDefault(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}

func convertWork(d workDoc) models.WorkModel {
	return models.WorkModel{
		Base:          base(d.ID, d.Timestamps),
		Title:         strings.TrimSpace(d.Title),
		Category:      strings.TrimSpace(d.Category),
		Image:         orDefault(d.Image, "gradient-1"),
		Likes:         models.ClampLikes(wholeNumber(d.Likes)),
		Link:          orDefault(d.Link, "#"),
		Description:   d.Description,
		Role:          d.Role,
		Tools:         models.CleanList(d.Tools),
		Features:      models.CleanList(d.Features),
		LiveDemoURL:   d.LiveDemoURL,
		SourceCodeURL: d.SourceCodeURL,
	}
}

func convertBlog(d blogDoc) models.BlogModel {
	return models.BlogModel{
		Base:     base(d.ID, d.Timestamps),
		Title:    strings.TrimSpace(d.Title),
		Category: strings.TrimSpace(d.Category),
		ReadTime: orDefault(d.ReadTime, "5 min read"),
		Excerpt:  d.Excerpt,
		Date:     d.Date,
		Image:    orDefault(d.Image, "gradient-1"),
		Content:  d.Content,
	}
}

// convertSkill reports false for skills whose type is outside the known groups.
func convertSkill(d skillDoc) (models.SkillModel, bool) {
	typ := models.SkillType(strings.ToLower(strings.TrimSpace(d.Type)))
	if !typ.Valid() {
		return models.SkillModel{}, false
	}
	return models.SkillModel{
		Base:       base(d.ID, d.Timestamps),
		Name:       strings.TrimSpace(d.Name),
		Percentage: models.ClampPercentage(wholeNumber(d.Percentage)),
		Type:       typ,
		Icon:       strings.TrimSpace(d.Icon),
	}, true
}

func convertContact(d contactDoc) models.ContactModel {
	return models.ContactModel{
		Base:    base(d.ID, d.Timestamps),
		Name:    d.Name,
		Phone:   d.Phone,
		Email:   strings.ToLower(strings.TrimSpace(d.Email)),
		Subject: d.Subject,
		Message: d.Message,
	}
}

func convertAdmin(d adminDoc) models.AdminModel {
	return models.AdminModel{
		Base:     base(d.ID, d.Timestamps),
		Email:    strings.ToLower(strings.TrimSpace(d.Email)),
		Password: d.Password,
	}
}

// latestCV picks the newest record. The legacy store kept one CV but could be
// left with several after a crash between delete and insert.
func latestCV(docs []cvDoc) (models.CVModel, bool) {
	if len(docs) == 0 {
		return models.CVModel{}, false
	}
	best := docs[0]
	for _, d := range docs[1:] {
		if cvTime(d).After(cvTime(best)) {
			best = d
		}
	}
	filename := best.Filename
	if filename == "" {
		filename = path.Base(strings.ReplaceAll(best.Path, "\\", "/"))
	}
	return models.CVModel{
		Slot:         models.CVSlot,
		ID:           best.ID.Hex(),
		Filename:     filename,
		OriginalName: orDefault(best.OriginalName, filename),
		Size:         best.Size,
		MimeType:     best.MimeType,
		Storage:      filearea.BackendLocal,
		Path:         best.Path,
		CreatedAt:    cvTime(best),
		UpdatedAt:    best.UpdatedAt,
	}, true
}

func cvTime(d cvDoc) time.Time {
	if !d.UploadedAt.IsZero() {
		return d.UploadedAt
	}
	if !d.CreatedAt.IsZero() {
		return d.CreatedAt
	}
	return d.ID.Timestamp()
}
