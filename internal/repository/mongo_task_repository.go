package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskify/internal/model"
)

type taskDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	UserID          primitive.ObjectID `bson:"user_id"`
	TaskName        string             `bson:"task_name"`
	TaskDescription string             `bson:"task_description"`
	DueDate         *time.Time         `bson:"due_date"`
	Priority        string             `bson:"priority"`
	Status          string             `bson:"status"`
	Category        string             `bson:"category"`
	EstimatedTime   float64            `bson:"estimated_time"`
	ActualTime      *float64           `bson:"actual_time"`
	Notes           string             `bson:"notes"`
	CreatedAt       time.Time          `bson:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at"`
	CompletedAt     *time.Time         `bson:"completed_at"`
	AssignedTo      string             `bson:"assigned_to"`
	Tags            string             `bson:"tags"`
}

func newTaskDocument(t *model.Task, ownerID primitive.ObjectID) taskDocument {
	return taskDocument{
		UserID:          ownerID,
		TaskName:        t.TaskName,
		TaskDescription: t.TaskDescription,
		DueDate:         t.DueDate,
		Priority:        string(t.Priority),
		Status:          string(t.Status),
		Category:        t.Category,
		EstimatedTime:   t.EstimatedTime,
		ActualTime:      t.ActualTime,
		Notes:           t.Notes,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
		CompletedAt:     t.CompletedAt,
		AssignedTo:      t.AssignedTo,
		Tags:            t.Tags,
	}
}

func (d taskDocument) toModel() model.Task {
	return model.Task{
		ID:              d.ID.Hex(),
		UserID:          d.UserID.Hex(),
		TaskName:        d.TaskName,
		TaskDescription: d.TaskDescription,
		DueDate:         d.DueDate,
		Priority:        model.Priority(d.Priority),
		Status:          model.Status(d.Status),
		Category:        d.Category,
		EstimatedTime:   d.EstimatedTime,
		ActualTime:      d.ActualTime,
		Notes:           d.Notes,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
		CompletedAt:     d.CompletedAt,
		AssignedTo:      d.AssignedTo,
		Tags:            d.Tags,
	}
}

// MongoTaskRepository is the document-store TaskStore. The owner reference is
// stored as the account's ObjectID and exchanged with callers as its hex form.
type MongoTaskRepository struct {
	coll *mongo.Collection
}

func NewMongoTaskRepository(coll *mongo.Collection) *MongoTaskRepository {
	return &MongoTaskRepository{coll: coll}
}

// EnsureIndexes creates the owner lookup index.
func (r *MongoTaskRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create tasks owner index: %w", err)
	}
	return nil
}

func (r *MongoTaskRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Task, error) {
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return []model.Task{}, nil
	}
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": owner},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	var docs []taskDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}

	tasks := make([]model.Task, 0, len(docs))
	for _, d := range docs {
		tasks = append(tasks, d.toModel())
	}
	return tasks, nil
}

func (r *MongoTaskRepository) Create(ctx context.Context, task *model.Task) error {
	owner, err := primitive.ObjectIDFromHex(task.UserID)
	if err != nil {
		return ErrInvalidID
	}
	doc := newTaskDocument(task, owner)
	doc.ID = primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	task.ID = doc.ID.Hex()
	return nil
}

// ownedFilter matches one task by id and owner. ok is false when either id is
// not a valid ObjectID, in which case nothing can match.
func ownedFilter(ownerID, taskID string) (bson.M, bool) {
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, false
	}
	oid, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return nil, false
	}
	return bson.M{"_id": oid, "user_id": owner}, true
}

// UpdateOwned applies the patch with a single find-and-modify filtered on
// both _id and user_id, returning the document after the update.
func (r *MongoTaskRepository) UpdateOwned(ctx context.Context, ownerID, taskID string, patch model.TaskPatch, now time.Time) (*model.Task, error) {
	filter, ok := ownedFilter(ownerID, taskID)
	if !ok {
		return nil, ErrTaskNotFound
	}

	var doc taskDocument
	err := r.coll.FindOneAndUpdate(ctx,
		filter,
		bson.M{"$set": patch.Fields(now)},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	task := doc.toModel()
	return &task, nil
}

func (r *MongoTaskRepository) DeleteOwned(ctx context.Context, ownerID, taskID string) error {
	filter, ok := ownedFilter(ownerID, taskID)
	if !ok {
		return ErrTaskNotFound
	}
	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrTaskNotFound
	}
	return nil
}
