package alertstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nimbuswatch/alerter/infra"
	"github.com/nimbuswatch/alerter/infra/ylog"
	"github.com/nimbuswatch/alerter/internal/alert"
)

const mongoTimeout = 30 * time.Second

type MongoStore struct{}

func NewMongoStore() *MongoStore {
	return &MongoStore{}
}

func (s *MongoStore) collection() *mongo.Collection {
	return infra.MongoClient.Database(infra.MongoDatabase).Collection(infra.AlertCollection)
}

func (s *MongoStore) Save(ctx context.Context, a *alert.Alert) error {
	col := s.collection()

	if a.Id.IsZero() {
		res, err := col.InsertOne(ctx, a)
		if err != nil {
			ylog.Errorf("MongoStore", "Save insert error %s", err.Error())
			return err
		}
		if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
			a.Id = oid
		}
		return nil
	}

	opt := &options.ReplaceOptions{}
	opt.SetUpsert(false)
	res, err := col.ReplaceOne(ctx, bson.M{"_id": a.Id}, a, opt)
	if err != nil {
		ylog.Errorf("MongoStore", "Save replace error %s", err.Error())
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func combineAlertQueryCondition(filter Filter) bson.M {
	searchContent := make(bson.A, 0, 8)

	if len(filter.Ids) > 0 {
		searchContent = append(searchContent, bson.M{"_id": bson.M{"$in": filter.Ids}})
	}

	if filter.MonitorId > 0 {
		searchContent = append(searchContent, bson.M{alert.AdfnMonitorId: filter.MonitorId})
	}

	if filter.Priority != nil {
		searchContent = append(searchContent, bson.M{alert.AdfnPriority: *filter.Priority})
	}

	if filter.Status != nil {
		searchContent = append(searchContent, bson.M{alert.AdfnStatus: *filter.Status})
	}

	if filter.Content != "" {
		searchContent = append(searchContent, bson.M{alert.AdfnContent: bson.M{"$regex": filter.Content}})
	}

	if len(searchContent) == 0 {
		return bson.M{}
	}
	return bson.M{"$and": searchContent}
}

func (s *MongoStore) FindAll(ctx context.Context, filter Filter, page PageQuery) ([]alert.Alert, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	col := s.collection()
	query := combineAlertQueryCondition(filter)

	total, err := col.CountDocuments(ctx, query)
	if err != nil {
		ylog.Errorf("MongoStore", "FindAll count error %s", err.Error())
		return nil, 0, err
	}

	if page.Page < 1 {
		page.Page = 1
	}
	if page.PageSize < 1 {
		page.PageSize = 100
	}

	findOption := options.Find()
	if page.SortKey != "" {
		order := page.Order
		if order == 0 {
			order = -1
		}
		findOption.SetSort(bson.M{page.SortKey: order})
	} else {
		findOption.SetSort(bson.M{alert.AdfnLastAlarmTime: -1})
	}
	findOption.SetSkip((page.Page - 1) * page.PageSize)
	findOption.SetLimit(page.PageSize)

	cursor, err := col.Find(ctx, query, findOption)
	if err != nil {
		ylog.Errorf("MongoStore", "FindAll find error %s", err.Error())
		return nil, 0, err
	}

	var alerts []alert.Alert
	err = cursor.All(ctx, &alerts)
	if err != nil {
		ylog.Errorf("MongoStore", "FindAll decode error %s", err.Error())
		return nil, 0, err
	}

	return alerts, total, nil
}

func (s *MongoStore) DeleteByIdIn(ctx context.Context, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.collection().DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return err
}

func (s *MongoStore) DeleteAll(ctx context.Context) error {
	_, err := s.collection().DeleteMany(ctx, bson.M{})
	return err
}

func (s *MongoStore) UpdateStatus(ctx context.Context, status int, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}

	writeOption := &options.BulkWriteOptions{}
	writeOption.SetOrdered(false)
	updateJs := bson.M{"$set": bson.M{alert.AdfnStatus: status}}

	bulkWrites := make([]mongo.WriteModel, 0, len(ids))
	for _, one := range ids {
		model := mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": one}).SetUpdate(updateJs).SetUpsert(false)
		bulkWrites = append(bulkWrites, model)
	}

	_, err := s.collection().BulkWrite(ctx, bulkWrites, writeOption)
	if err != nil {
		ylog.Errorf("MongoStore", "UpdateStatus bulk write error num %d error %s", len(bulkWrites), err.Error())
		return err
	}
	return nil
}

func (s *MongoStore) FindPriorityCounts(ctx context.Context) ([]PriorityCount, error) {
	groupJs := bson.D{primitive.E{Key: "$group", Value: bson.D{
		primitive.E{Key: "_id", Value: "$" + alert.AdfnPriority},
		primitive.E{Key: "count", Value: bson.D{
			primitive.E{Key: "$sum", Value: 1},
		}},
	}}}

	opts := options.Aggregate().SetMaxTime(15 * time.Second)
	cursor, err := s.collection().Aggregate(ctx, mongo.Pipeline{groupJs}, opts)
	if err != nil {
		ylog.Errorf("MongoStore", "FindPriorityCounts aggregate error %s", err.Error())
		return nil, err
	}

	var counts []PriorityCount
	err = cursor.All(ctx, &counts)
	if err != nil {
		ylog.Errorf("MongoStore", "FindPriorityCounts decode error %s", err.Error())
		return nil, err
	}

	return counts, nil
}

func (s *MongoStore) Count(ctx context.Context) (int64, error) {
	return s.collection().CountDocuments(ctx, bson.M{})
}

func (s *MongoStore) FindUnresolved(ctx context.Context) ([]alert.Alert, error) {
	cursor, err := s.collection().Find(ctx, bson.M{alert.AdfnStatus: alert.StatusUnresolved})
	if err != nil {
		return nil, err
	}

	var alerts []alert.Alert
	err = cursor.All(ctx, &alerts)
	if err != nil {
		return nil, err
	}
	return alerts, nil
}
