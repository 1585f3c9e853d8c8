package boot

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/nimbuswatch/alerter/infra"
	"github.com/nimbuswatch/alerter/infra/mongodb"
	"github.com/nimbuswatch/alerter/infra/redis"
	"github.com/nimbuswatch/alerter/infra/userconfig"
	"github.com/nimbuswatch/alerter/infra/ylog"

	v1 "github.com/nimbuswatch/alerter/biz/handler/v1"
	"github.com/nimbuswatch/alerter/internal/alertservice"
	"github.com/nimbuswatch/alerter/internal/alertstore"
	"github.com/nimbuswatch/alerter/internal/cloudadapter"
	"github.com/nimbuswatch/alerter/internal/cronjob"
	"github.com/nimbuswatch/alerter/internal/outputer"
	"github.com/nimbuswatch/alerter/internal/reduce"
)

func Initialize() error {
	var err error

	confPath := flag.String("c", "conf/svr.yml", "ConfigPath")
	flag.Parse()
	infra.ConfPath = *confPath

	//load config
	if infra.Conf, err = userconfig.NewUserConfig(userconfig.WithPath(infra.ConfPath)); err != nil {
		fmt.Println("NEW_CONFIG_ERROR", err.Error())
		return err
	}

	initLog()
	if err = initDefault(); err != nil {
		return err
	}
	if err = initComponents(); err != nil {
		return err
	}

	if err = cloudadapter.RegisterFromConfig(infra.Conf); err != nil {
		fmt.Println("INIT_CLOUD_ADAPTER", err.Error())
	}

	out := outputer.NewHandler()
	if err = out.Init(infra.Conf); err != nil {
		fmt.Println("INIT_OUTPUTER", err.Error())
	}

	policy := reduce.NewDispatchPolicy(
		infra.Conf.GetString("reduce.policy"),
		infra.Conf.GetInt64("reduce.every_n"),
		infra.Conf.GetDuration("reduce.interval"),
	)

	store := alertstore.NewMongoStore()
	engine := reduce.NewEngine(store, out, policy)
	if err = engine.Rebuild(context.Background()); err != nil {
		fmt.Println("REBUILD_ACTIVE_INDEX", err.Error())
	}

	v1.Init(alertservice.NewService(store, engine))

	if err = cronjob.InitCronjob(engine); err != nil {
		fmt.Println("INIT_CRONJOB", err.Error())
		return err
	}

	return nil
}

func initLog() {
	logger := ylog.NewYLog(
		ylog.WithLogFile(infra.Conf.GetString("log.path")),
		ylog.WithMaxAge(3),
		ylog.WithMaxSize(10),
		ylog.WithMaxBackups(3),
		ylog.WithLevel(infra.Conf.GetInt("log.loglevel")),
	)
	ylog.InitLogger(logger)
}

func initDefault() error {
	infra.HttpPort = infra.Conf.GetInt("http.port")
	infra.SvrName = infra.Conf.GetString("server.name")

	localIP, err := infra.GetOutboundIP()
	if err != nil {
		ylog.Errorf("INIT", "get outbound ip error %s", err.Error())
	}
	infra.LocalIP = localIP
	return nil
}

func initComponents() error {
	var err error

	//connect redis
	if infra.Grds, err = redis.NewRedisClient(infra.Conf.GetStringSlice("redis.addrs"), infra.Conf.GetString("redis.mastername"), infra.Conf.GetString("redis.passwd")); err != nil {
		fmt.Println("NEW_REDIS_ERROR", err.Error())
		return err
	}

	//test if redis is ok!
	err = infra.Grds.Set(context.Background(), "alerter_test", "test", time.Second).Err()
	if err != nil {
		fmt.Println("REDIS_ERROR", err.Error())
		return err
	}

	//connect mongodb
	infra.MongoDatabase = infra.Conf.GetString("mongo.dbname")
	if infra.MongoClient, err = mongodb.NewMongoClient(infra.Conf.GetString("mongo.uri")); err != nil {
		fmt.Println("NEW_MONGO_ERROR", err.Error())
		return err
	}
	return nil
}
