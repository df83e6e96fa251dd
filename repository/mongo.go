package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/princinho/portfoliobackend/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	AdminsCollection    = "admins"
	PortfolioCollection = "portfolios"
	MessagesCollection  = "contacts"
)

// NewMongoStore returns a Store backed by the collections of db.
func NewMongoStore(db *mongo.Database) *Store {
	return &Store{
		Admins:    &mongoAdmins{col: db.Collection(AdminsCollection)},
		Portfolio: &mongoPortfolio{col: db.Collection(PortfolioCollection)},
		Messages:  &mongoMessages{col: db.Collection(MessagesCollection)},
	}
}

// EnsureIndexes creates the unique indexes the repositories rely on:
// one admin per email and one portfolio per key.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(AdminsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("admins email index: %w", err)
	}
	_, err = db.Collection(PortfolioCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("portfolio key index: %w", err)
	}
	_, err = db.Collection(MessagesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("contacts status index: %w", err)
	}
	return nil
}

func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if mongo.IsDuplicateKeyError(err) {
		return true
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 || e.Code == 11001 {
				return true
			}
		}
	}
	return strings.Contains(err.Error(), "E11000 duplicate key error")
}

// translate maps driver errors onto the package sentinels.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case IsDuplicateKey(err):
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, err)
}

type mongoAdmins struct {
	col *mongo.Collection
}

func (r *mongoAdmins) Count(ctx context.Context) (int64, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{})
	return n, translate("count admins", err)
}

func (r *mongoAdmins) Insert(ctx context.Context, admin *models.Admin) error {
	if admin.ID.IsZero() {
		admin.ID = bson.NewObjectID()
	}
	_, err := r.col.InsertOne(ctx, admin)
	return translate("insert admin", err)
}

func (r *mongoAdmins) FindByID(ctx context.Context, id bson.ObjectID) (*models.Admin, error) {
	var a models.Admin
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, translate("find admin", err)
	}
	return &a, nil
}

func (r *mongoAdmins) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var a models.Admin
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&a); err != nil {
		return nil, translate("find admin by email", err)
	}
	return &a, nil
}

func (r *mongoAdmins) List(ctx context.Context) ([]models.Admin, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, translate("list admins", err)
	}
	defer cursor.Close(ctx)

	items := make([]models.Admin, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, translate("decode admins", err)
	}
	return items, nil
}

func (r *mongoAdmins) Update(ctx context.Context, id bson.ObjectID, c AdminChanges) (*models.Admin, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if c.Name != nil {
		set["name"] = *c.Name
	}
	if c.Email != nil {
		set["email"] = *c.Email
	}
	if c.PasswordHash != nil {
		set["password"] = *c.PasswordHash
	}
	if c.Role != nil {
		set["role"] = *c.Role
	}
	if c.IsActive != nil {
		set["isActive"] = *c.IsActive
	}
	if c.LastLogin != nil {
		set["lastLogin"] = *c.LastLogin
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var a models.Admin
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&a)
	if err != nil {
		return nil, translate("update admin", err)
	}
	return &a, nil
}

func (r *mongoAdmins) Delete(ctx context.Context, id bson.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate("delete admin", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type mongoPortfolio struct {
	col *mongo.Collection
}

func portfolioFilter() bson.M {
	return bson.M{"key": models.PortfolioKey}
}

func (r *mongoPortfolio) GetOrCreate(ctx context.Context, newDefault func() models.Portfolio) (*models.Portfolio, error) {
	def := newDefault()
	// key comes from the filter equality on insert.
	onInsert := bson.M{
		"hero":      def.Hero,
		"about":     def.About,
		"projects":  def.Projects,
		"contact":   def.Contact,
		"footer":    def.Footer,
		"createdAt": def.CreatedAt,
		"updatedAt": def.UpdatedAt,
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var p models.Portfolio
	err := r.col.FindOneAndUpdate(ctx, portfolioFilter(), bson.M{"$setOnInsert": onInsert}, opts).Decode(&p)
	if err != nil && IsDuplicateKey(err) {
		// A concurrent upsert won the insert; the document now exists.
		err = r.col.FindOne(ctx, portfolioFilter()).Decode(&p)
	}
	if err != nil {
		return nil, translate("get or create portfolio", err)
	}
	return &p, nil
}

func (r *mongoPortfolio) Replace(ctx context.Context, p *models.Portfolio) (*models.Portfolio, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"hero":      p.Hero,
			"about":     p.About,
			"projects":  p.Projects,
			"contact":   p.Contact,
			"footer":    p.Footer,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{"createdAt": now},
	}
	return r.findOneAndUpdate(ctx, portfolioFilter(), update, true, "replace portfolio")
}

func (r *mongoPortfolio) UpdateSection(ctx context.Context, section models.Section, p *models.Portfolio) (*models.Portfolio, error) {
	update := bson.M{"$set": bson.M{
		string(section): p.SectionValue(section),
		"updatedAt":     time.Now().UTC(),
	}}
	return r.findOneAndUpdate(ctx, portfolioFilter(), update, false, "update "+string(section))
}

func (r *mongoPortfolio) PushItem(ctx context.Context, coll models.Collection, item any) (*models.Portfolio, error) {
	update := bson.M{
		"$push": bson.M{coll.Path(): item},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	return r.findOneAndUpdate(ctx, portfolioFilter(), update, false, "push "+string(coll))
}

func (r *mongoPortfolio) SetItem(ctx context.Context, coll models.Collection, id bson.ObjectID, item any) (*models.Portfolio, error) {
	filter := portfolioFilter()
	filter[coll.Path()+"._id"] = id
	update := bson.M{"$set": bson.M{
		coll.Path() + ".$": item,
		"updatedAt":        time.Now().UTC(),
	}}
	return r.findOneAndUpdate(ctx, filter, update, false, "set "+string(coll))
}

func (r *mongoPortfolio) PullItem(ctx context.Context, coll models.Collection, id bson.ObjectID) (*models.Portfolio, error) {
	filter := portfolioFilter()
	filter[coll.Path()+"._id"] = id
	update := bson.M{
		"$pull": bson.M{coll.Path(): bson.M{"_id": id}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	return r.findOneAndUpdate(ctx, filter, update, false, "pull "+string(coll))
}

func (r *mongoPortfolio) findOneAndUpdate(ctx context.Context, filter bson.M, update bson.M, upsert bool, op string) (*models.Portfolio, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(upsert).
		SetReturnDocument(options.After)
	var p models.Portfolio
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&p); err != nil {
		return nil, translate(op, err)
	}
	return &p, nil
}

type mongoMessages struct {
	col *mongo.Collection
}

func (r *mongoMessages) Insert(ctx context.Context, msg *models.ContactMessage) error {
	if msg.ID.IsZero() {
		msg.ID = bson.NewObjectID()
	}
	_, err := r.col.InsertOne(ctx, msg)
	return translate("insert message", err)
}

func (r *mongoMessages) FindByID(ctx context.Context, id bson.ObjectID) (*models.ContactMessage, error) {
	var msg models.ContactMessage
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&msg); err != nil {
		return nil, translate("find message", err)
	}
	return &msg, nil
}

func (r *mongoMessages) List(ctx context.Context, f MessageFilter) ([]models.ContactMessage, int64, error) {
	filter := bson.M{}
	if f.Status != nil {
		filter["status"] = *f.Status
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if f.Skip > 0 {
		opts.SetSkip(f.Skip)
	}
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, translate("list messages", err)
	}
	defer cursor.Close(ctx)

	items := make([]models.ContactMessage, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, translate("decode messages", err)
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, translate("count messages", err)
	}
	return items, total, nil
}

func (r *mongoMessages) SetStatus(ctx context.Context, id bson.ObjectID, status models.MessageStatus) (*models.ContactMessage, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}}
	var msg models.ContactMessage
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&msg); err != nil {
		return nil, translate("set message status", err)
	}
	return &msg, nil
}

func (r *mongoMessages) Delete(ctx context.Context, id bson.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate("delete message", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoMessages) CountByStatus(ctx context.Context) (models.MessageStats, error) {
	var stats models.MessageStats
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return stats, translate("aggregate message stats", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var row struct {
			Status models.MessageStatus `bson:"_id"`
			Count  int64                `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return stats, translate("decode message stats", err)
		}
		stats.Add(row.Status, row.Count)
	}
	return stats, translate("iterate message stats", cursor.Err())
}

func (r *mongoMessages) CountSince(ctx context.Context, since time.Time) (int64, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"createdAt": bson.M{"$gte": since}})
	return n, translate("count recent messages", err)
}

func (r *mongoMessages) ReplaceAll(ctx context.Context, msgs []models.ContactMessage) error {
	if _, err := r.col.DeleteMany(ctx, bson.M{}); err != nil {
		return translate("clear messages", err)
	}
	if len(msgs) == 0 {
		return nil
	}
	docs := make([]any, 0, len(msgs))
	for _, msg := range msgs {
		if msg.ID.IsZero() {
			msg.ID = bson.NewObjectID()
		}
		docs = append(docs, msg)
	}
	_, err := r.col.InsertMany(ctx, docs)
	return translate("import messages", err)
}
