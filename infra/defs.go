package infra

import (
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	AlertCollection          = "alert_v1"
	AlertDailyStatCollection = "alert_daily_stat_v1"
)

var (
	Conf     *viper.Viper
	ConfPath string
	Sig      = make(chan os.Signal, 1)
	Quit     = make(chan bool)

	Grds          redis.UniversalClient
	MongoClient   *mongo.Client
	MongoDatabase string

	HttpPort int

	SvrName string
	LocalIP string
)
