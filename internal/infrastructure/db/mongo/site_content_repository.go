package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/savannaherds/site-api/internal/core/domain"
	"github.com/savannaherds/site-api/internal/core/ports"
)

const collectionSiteContent = "site_content"

// SiteContentRepository stores the singleton homepage document under
// _id = domain.SiteContentKey.
type SiteContentRepository struct {
	coll *mongo.Collection
}

var _ ports.SiteContentRepository = (*SiteContentRepository)(nil)

func NewSiteContentRepository(db *mongo.Database) *SiteContentRepository {
	return &SiteContentRepository{coll: db.Collection(collectionSiteContent)}
}

func (r *SiteContentRepository) Get(ctx context.Context) (*domain.SiteContent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var content domain.SiteContent
	if err := r.coll.FindOne(ctx, bson.M{"_id": domain.SiteContentKey}).Decode(&content); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSiteContentNotFound
		}
		return nil, fmt.Errorf("find site content: %w", err)
	}
	return &content, nil
}

// Upsert merges the supplied fields into the document, creating it if absent.
// Fields left nil in patch keep their stored value.
func (r *SiteContentRepository) Upsert(ctx context.Context, patch ports.SiteContentPatch, updatedBy string, at time.Time) (*domain.SiteContent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var content domain.SiteContent
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": domain.SiteContentKey}, siteContentUpdate(patch, updatedBy, at), opts).Decode(&content)
	if err != nil {
		return nil, fmt.Errorf("upsert site content: %w", err)
	}
	return &content, nil
}

// siteContentUpdate sets the fields present in patch. Absent fields are filled
// from the defaults only when the write creates the document, so a partial
// first write never stores blanks.
func siteContentUpdate(patch ports.SiteContentPatch, updatedBy string, at time.Time) bson.M {
	defaults := domain.DefaultSiteContent()
	set := bson.M{"updated_at": at, "updated_by": updatedBy}
	onInsert := bson.M{}

	for _, f := range []struct {
		key   string
		value *string
		def   string
	}{
		{"hero_title", patch.HeroTitle, defaults.HeroTitle},
		{"hero_subtitle", patch.HeroSubtitle, defaults.HeroSubtitle},
		{"about_text", patch.AboutText, defaults.AboutText},
		{"contact_info", patch.ContactInfo, defaults.ContactInfo},
	} {
		if f.value != nil {
			set[f.key] = *f.value
		} else {
			onInsert[f.key] = f.def
		}
	}

	update := bson.M{"$set": set}
	if len(onInsert) > 0 {
		update["$setOnInsert"] = onInsert
	}
	return update
}
