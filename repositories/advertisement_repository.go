package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/autoflow/autoflow_backend/models"
)

// AdvertisementRepository is the listing store, covering advertisements and
// their attached image records. Lookups that miss return mongo.ErrNoDocuments.
type AdvertisementRepository interface {
	Insert(ctx context.Context, ad *models.Advertisement) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Advertisement, error)
	ListByStatus(ctx context.Context, status string) ([]models.Advertisement, error)
	ListByOwner(ctx context.Context, userID primitive.ObjectID) ([]models.Advertisement, error)
	IDsByOwner(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error)
	Update(ctx context.Context, ad *models.Advertisement) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	InsertImages(ctx context.Context, images []models.AdvertisementImage) error
	ImagesByAdvertisement(ctx context.Context, adID primitive.ObjectID) ([]models.AdvertisementImage, error)
	ImagesByAdvertisements(ctx context.Context, adIDs []primitive.ObjectID) (map[primitive.ObjectID][]models.AdvertisementImage, error)
	DeleteImages(ctx context.Context, adID primitive.ObjectID) error
}

type mongoAdvertisementRepository struct {
	ads    *mongo.Collection
	images *mongo.Collection
}

// NewAdvertisementRepository creates a Mongo-backed advertisement repository.
func NewAdvertisementRepository(db *mongo.Database) AdvertisementRepository {
	return &mongoAdvertisementRepository{
		ads:    db.Collection("advertisements"),
		images: db.Collection("advertisement_images"),
	}
}

func (r *mongoAdvertisementRepository) Insert(ctx context.Context, ad *models.Advertisement) (primitive.ObjectID, error) {
	if ad.ID.IsZero() {
		ad.ID = primitive.NewObjectID()
	}
	_, err := r.ads.InsertOne(ctx, ad)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return ad.ID, nil
}

func (r *mongoAdvertisementRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Advertisement, error) {
	var ad models.Advertisement
	err := r.ads.FindOne(ctx, bson.M{"_id": id}).Decode(&ad)
	if err != nil {
		return nil, err
	}
	return &ad, nil
}

func (r *mongoAdvertisementRepository) ListByStatus(ctx context.Context, status string) ([]models.Advertisement, error) {
	return r.list(ctx, bson.M{"status": status})
}

func (r *mongoAdvertisementRepository) ListByOwner(ctx context.Context, userID primitive.ObjectID) ([]models.Advertisement, error) {
	return r.list(ctx, bson.M{"userId": userID})
}

func (r *mongoAdvertisementRepository) list(ctx context.Context, filter bson.M) ([]models.Advertisement, error) {
	findOptions := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.ads.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ads []models.Advertisement
	if err := cursor.All(ctx, &ads); err != nil {
		return nil, err
	}
	return ads, nil
}

func (r *mongoAdvertisementRepository) IDsByOwner(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cursor, err := r.ads.Find(ctx, bson.M{"userId": userID},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ids []primitive.ObjectID
	for cursor.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		ids = append(ids, doc.ID)
	}
	return ids, cursor.Err()
}

func (r *mongoAdvertisementRepository) Update(ctx context.Context, ad *models.Advertisement) error {
	update := bson.M{
		"$set": bson.M{
			"brand":       ad.Brand,
			"model":       ad.Model,
			"year":        ad.Year,
			"color":       ad.Color,
			"mileage":     ad.Mileage,
			"engine":      ad.Engine,
			"price":       ad.Price,
			"description": ad.Description,
			"status":      ad.Status,
		},
	}
	if ad.ApprovedAt != nil {
		update["$set"].(bson.M)["approvedAt"] = ad.ApprovedAt
	} else {
		update["$unset"] = bson.M{"approvedAt": ""}
	}

	result, err := r.ads.UpdateOne(ctx, bson.M{"_id": ad.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoAdvertisementRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.ads.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoAdvertisementRepository) InsertImages(ctx context.Context, images []models.AdvertisementImage) error {
	if len(images) == 0 {
		return nil
	}
	docs := make([]interface{}, len(images))
	for i := range images {
		if images[i].ID.IsZero() {
			images[i].ID = primitive.NewObjectID()
		}
		docs[i] = images[i]
	}
	_, err := r.images.InsertMany(ctx, docs)
	return err
}

func (r *mongoAdvertisementRepository) ImagesByAdvertisement(ctx context.Context, adID primitive.ObjectID) ([]models.AdvertisementImage, error) {
	findOptions := options.Find().SetSort(bson.M{"displayOrder": 1})
	cursor, err := r.images.Find(ctx, bson.M{"advertisementId": adID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var images []models.AdvertisementImage
	if err := cursor.All(ctx, &images); err != nil {
		return nil, err
	}
	return images, nil
}

func (r *mongoAdvertisementRepository) ImagesByAdvertisements(ctx context.Context, adIDs []primitive.ObjectID) (map[primitive.ObjectID][]models.AdvertisementImage, error) {
	grouped := make(map[primitive.ObjectID][]models.AdvertisementImage, len(adIDs))
	if len(adIDs) == 0 {
		return grouped, nil
	}

	findOptions := options.Find().SetSort(bson.M{"displayOrder": 1})
	cursor, err := r.images.Find(ctx, bson.M{"advertisementId": bson.M{"$in": adIDs}}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var image models.AdvertisementImage
		if err := cursor.Decode(&image); err != nil {
			return nil, err
		}
		grouped[image.AdvertisementID] = append(grouped[image.AdvertisementID], image)
	}
	return grouped, cursor.Err()
}

func (r *mongoAdvertisementRepository) DeleteImages(ctx context.Context, adID primitive.ObjectID) error {
	_, err := r.images.DeleteMany(ctx, bson.M{"advertisementId": adID})
	return err
}
