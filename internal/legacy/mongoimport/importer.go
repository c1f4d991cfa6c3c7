// Package mongoimport copies the legacy MongoDB portfolio data into the SQL store.
package mongoimport

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/shagor/portfolio-core/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const batchSize = 100

// Source yields the raw documents of one collection.
type Source interface {
	All(ctx context.Context, collection string) ([]bson.Raw, error)
}

// MongoSource reads from a live MongoDB database.
type MongoSource struct {
	client *mongo.Client
	db     *mongo.Database
}

// Dial connects to uri. The database name comes from the URI path unless
// dbName is set.
func Dial(ctx context.Context, uri, dbName string) (*MongoSource, error) {
	if dbName == "" {
		cs, err := connstring.ParseAndValidate(uri)
		if err != nil {
			return nil, fmt.Errorf("parse mongodb uri: %w", err)
		}
		dbName = cs.Database
	}
	if dbName == "" {
		return nil, errors.New("mongodb database name is missing from the uri")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return &MongoSource{client: client, db: client.Database(dbName)}, nil
}

func (s *MongoSource) All(ctx context.Context, collection string) ([]bson.Raw, error) {
	cur, err := s.db.Collection(collection).Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []bson.Raw
	for cur.Next(ctx) {
		doc := make(bson.Raw, len(cur.Current))
		copy(doc, cur.Current)
		out = append(out, doc)
	}
	return out, cur.Err()
}

func (s *MongoSource) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Options narrows an import run.
type Options struct {
	Collections []string // empty means AllCollections
	DryRun      bool
}

// Result counts the documents of one collection.
type Result struct {
	Collection string
	Read       int
	Written    int
	Skipped    int
}

type Importer struct {
	src Source
	dst *gorm.DB
	log *zap.Logger
}

func New(src Source, dst *gorm.DB, log *zap.Logger) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{src: src, dst: dst, log: log}
}

// Run imports the selected collections in order. Re-running is safe: records
// keep their legacy ids and existing rows are overwritten.
func (im *Importer) Run(ctx context.Context, opts Options) ([]Result, error) {
	collections := opts.Collections
	if len(collections) == 0 {
		collections = AllCollections
	}
	results := make([]Result, 0, len(collections))
	for _, name := range collections {
		if !slices.Contains(AllCollections, name) {
			return results, fmt.Errorf("unknown collection %q", name)
		}
		raws, err := im.src.All(ctx, name)
		if err != nil {
			return results, fmt.Errorf("read %s: %w", name, err)
		}
		res, err := im.importCollection(name, raws, opts.DryRun)
		if err != nil {
			return results, fmt.Errorf("import %s: %w", name, err)
		}
		im.log.Info("collection imported",
			zap.String("collection", name),
			zap.Int("read", res.Read),
			zap.Int("written", res.Written),
			zap.Int("skipped", res.Skipped),
			zap.Bool("dry_run", opts.DryRun),
		)
		results = append(results, res)
	}
	return results, nil
}

func (im *Importer) importCollection(name string, raws []bson.Raw, dryRun bool) (Result, error) {
	res := Result{Collection: name, Read: len(raws)}
	switch name {
	case CollectionWorks:
		docs, err := decodeAll[workDoc](raws)
		if err != nil {
			return res, err
		}
		rows := make([]models.WorkModel, 0, len(docs))
		for _, d := range docs {
			rows = append(rows, convertWork(d))
		}
		return im.upsert(res, rows, dryRun)

	case CollectionBlogs:
		docs, err := decodeAll[blogDoc](raws)
		if err != nil {
			return res, err
		}
		rows := make([]models.BlogModel, 0, len(docs))
		for _, d := range docs {
			rows = append(rows, convertBlog(d))
		}
		return im.upsert(res, rows, dryRun)

	case CollectionSkills:
		docs, err := decodeAll[skillDoc](raws)
		if err != nil {
			return res, err
		}
		rows := make([]models.SkillModel, 0, len(docs))
		for _, d := range docs {
			row, ok := convertSkill(d)
			if !ok {
				im.log.Warn("skipping skill with unknown type", zap.String("id", d.ID.Hex()), zap.String("type", d.Type))
				res.Skipped++
				continue
			}
			rows = append(rows, row)
		}
		return im.upsert(res, rows, dryRun)

	case CollectionContacts:
		docs, err := decodeAll[contactDoc](raws)
		if err != nil {
			return res, err
		}
		rows := make([]models.ContactModel, 0, len(docs))
		for _, d := range docs {
			rows = append(rows, convertContact(d))
		}
		return im.upsert(res, rows, dryRun)

	case CollectionAdmins:
		docs, err := decodeAll[adminDoc](raws)
		if err != nil {
			return res, err
		}
		return im.importAdmins(res, docs, dryRun)

	case CollectionCVs:
		docs, err := decodeAll[cvDoc](raws)
		if err != nil {
			return res, err
		}
		row, ok := latestCV(docs)
		if !ok {
			return res, nil
		}
		res.Skipped = len(docs) - 1
		if dryRun {
			res.Written = 1
			return res, nil
		}
		err = im.dst.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slot"}},
			DoUpdates: clause.AssignmentColumns([]string{"id", "filename", "original_name", "size", "mime_type", "storage", "created_at", "updated_at"}),
		}).Create(&row).Error
		if err != nil {
			return res, err
		}
		res.Written = 1
		return res, nil
	}
	return res, fmt.Errorf("unknown collection %q", name)
}

// importAdmins leaves accounts whose email already exists untouched.
func (im *Importer) importAdmins(res Result, docs []adminDoc, dryRun bool) (Result, error) {
	for _, d := range docs {
		row := convertAdmin(d)
		if row.Email == "" || row.Password == "" {
			res.Skipped++
			continue
		}
		var count int64
		if err := im.dst.Model(&models.AdminModel{}).Where("email = ? OR id = ?", row.Email, row.ID).Count(&count).Error; err != nil {
			return res, err
		}
		if count > 0 {
			res.Skipped++
			continue
		}
		if !dryRun {
			if err := im.dst.Create(&row).Error; err != nil {
				return res, err
			}
		}
		res.Written++
	}
	return res, nil
}

func (im *Importer) upsert(res Result, rows interface{}, dryRun bool) (Result, error) {
	n := sliceLen(rows)
	if n == 0 {
		return res, nil
	}
	if !dryRun {
		if err := im.dst.Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(rows, batchSize).Error; err != nil {
			return res, err
		}
	}
	res.Written = n
	return res, nil
}

func sliceLen(rows interface{}) int {
	switch v := rows.(type) {
	case []models.WorkModel:
		return len(v)
	case []models.BlogModel:
		return len(v)
	case []models.SkillModel:
		return len(v)
	case []models.ContactModel:
		return len(v)
	}
	return 0
}

func decodeAll[T any](raws []bson.Raw) ([]T, error) {
	out := make([]T, 0, len(raws))
	for i, raw := range raws {
		var doc T
		if err := bson.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		out = append(out, doc)
	}
	return out, nil
}
