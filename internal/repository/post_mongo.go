package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/d60-Lab/zenith/internal/model"
)

// PostCollection 文档库中的集合名
const PostCollection = "blogs"

// postDocument _id 以 ObjectID 落库
type postDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Title     string             `bson:"title"`
	Category  string             `bson:"category"`
	Content   string             `bson:"content"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *postDocument) toModel() *model.Post {
	return &model.Post{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Category:  d.Category,
		Content:   d.Content,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

type mongoPostRepository struct {
	coll *mongo.Collection
}

// NewMongoPostRepository 文档库文章仓储
func NewMongoPostRepository(coll *mongo.Collection) PostRepository {
	return &mongoPostRepository{coll: coll}
}

// EnsureCreatedIndex 列表按 createdAt 倒序读取，blogs 和 products 共用
func EnsureCreatedIndex(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    newestFirst,
		Options: options.Index().SetName("idx_created_desc"),
	})
	return err
}

func (r *mongoPostRepository) List(ctx context.Context) ([]*model.Post, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, err
	}
	var docs []postDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	posts := make([]*model.Post, len(docs))
	for i := range docs {
		posts[i] = docs[i].toModel()
	}
	return posts, nil
}

func (r *mongoPostRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var doc postDocument
	err = r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *mongoPostRepository) Create(ctx context.Context, post *model.Post) error {
	oid, err := primitive.ObjectIDFromHex(post.ID)
	if err != nil {
		return err
	}
	_, err = r.coll.InsertOne(ctx, postDocument{
		ID:        oid,
		Title:     post.Title,
		Category:  post.Category,
		Content:   post.Content,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	})
	return err
}

func (r *mongoPostRepository) Update(ctx context.Context, id string, patch model.PostPatch) (*model.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	set := bson.D{{Key: "updatedAt", Value: patch.UpdatedAt}}
	if patch.Title != nil {
		set = append(set, bson.E{Key: "title", Value: *patch.Title})
	}
	if patch.Category != nil {
		set = append(set, bson.E{Key: "category", Value: *patch.Category})
	}
	if patch.Content != nil {
		set = append(set, bson.E{Key: "content", Value: *patch.Content})
	}

	var doc postDocument
	err = r.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *mongoPostRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
