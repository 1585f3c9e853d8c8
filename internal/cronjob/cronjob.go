package cronjob

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nimbuswatch/alerter/infra"
	"github.com/nimbuswatch/alerter/infra/ylog"
	"github.com/nimbuswatch/alerter/internal/alert"
	"github.com/nimbuswatch/alerter/internal/reduce"
)

var scheduler = cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

const (
	dailyStatLockKey = "alert_daily_stat"
	dailyStatPeriod  = 10 * time.Minute
)

type AlertDailyStat struct {
	DayTime       int64 `json:"daytime" bson:"daytime"`
	UnresolvedNum int64 `json:"unresolved_num" bson:"unresolved_num"`
	UpdateTime    int64 `json:"update_time" bson:"update_time"`
}

// DayTimeIndex truncates a unix timestamp to its day boundary, shifted by
// diff days.
func DayTimeIndex(inTime int64, diff int) int64 {
	oneDaySec := int64(3600 * 24)
	return inTime - inTime%oneDaySec + int64(diff)*oneDaySec
}

func updateAlertStatForDay(ctx context.Context) error {
	nowTime := time.Now().Unix()
	timeIndex := DayTimeIndex(nowTime, 0)

	alertCol := infra.MongoClient.Database(infra.MongoDatabase).Collection(infra.AlertCollection)
	unresolvedNum, err := alertCol.CountDocuments(ctx, bson.M{alert.AdfnStatus: alert.StatusUnresolved})
	if err != nil {
		return err
	}

	newStat := AlertDailyStat{
		DayTime:       timeIndex,
		UnresolvedNum: unresolvedNum,
		UpdateTime:    nowTime,
	}

	statCol := infra.MongoClient.Database(infra.MongoDatabase).Collection(infra.AlertDailyStatCollection)
	option := &options.UpdateOptions{}
	option.SetUpsert(true)
	_, err = statCol.UpdateOne(ctx, bson.M{"daytime": timeIndex}, bson.M{"$set": newStat}, option)
	return err
}

// QueryDayStats returns the rolled-up daily trend for the last dayNum days.
func QueryDayStats(ctx context.Context, nowTime int64, dayNum int) ([]AlertDailyStat, error) {
	queryStartTime := DayTimeIndex(nowTime, 1-dayNum)
	queryEndTime := DayTimeIndex(nowTime, 1)

	statCol := infra.MongoClient.Database(infra.MongoDatabase).Collection(infra.AlertDailyStatCollection)
	cur, err := statCol.Find(ctx, bson.M{"daytime": bson.M{"$gte": queryStartTime, "$lt": queryEndTime}})
	if err != nil {
		return nil, err
	}

	var stats []AlertDailyStat
	err = cur.All(ctx, &stats)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// runDailyStatRollup takes the cluster-wide lock, upserts today's stat row
// and releases the lock. The upsert is idempotent, so a second instance
// re-running inside one period is harmless, the lock only prevents
// concurrent writers.
func runDailyStatRollup() {
	locked, err := infra.DistributedLockWithExpireTime(dailyStatLockKey, dailyStatPeriod)
	if err != nil || !locked {
		return
	}
	defer func() {
		_ = infra.DistributedUnLockWithRetry(dailyStatLockKey, 3)
	}()

	if err = updateAlertStatForDay(context.Background()); err != nil {
		ylog.Errorf("Cronjob", "updateAlertStatForDay error %s", err.Error())
	}
}

// InitCronjob starts the periodic workers: the daily unresolved rollup runs
// behind a redis lock so one instance wins, the active-index rebuild runs on
// every instance since the index is per-process.
func InitCronjob(engine *reduce.Engine) error {
	_, err := scheduler.AddFunc("@every 10m", runDailyStatRollup)
	if err != nil {
		return err
	}

	_, err = scheduler.AddFunc("@every 30m", func() {
		if rErr := engine.Rebuild(context.Background()); rErr != nil {
			ylog.Errorf("Cronjob", "active index rebuild error %s", rErr.Error())
		}
	})
	if err != nil {
		return err
	}

	scheduler.Start()
	return nil
}

func StopCronjob() {
	scheduler.Stop()
}
