package infra

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/nimbuswatch/alerter/infra/ylog"
)

var mutex sync.Mutex

// lockOwner identifies this process in lock values, handy when debugging
// who holds a stuck lock.
var lockOwner = xid.New().String()

func DistributedLockWithExpireTime(key string, expireTime time.Duration) (bool, error) {
	mutex.Lock()
	defer mutex.Unlock()
	ok, err := Grds.SetNX(context.Background(), fmt.Sprintf("DistributedLock-%s", key), lockOwner, expireTime).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

func DistributedUnLockWithRetry(key string, retry int) (err error) {
	rKey := fmt.Sprintf("DistributedLock-%s", key)
	for {
		retry--
		_, err = Grds.Del(context.Background(), rKey).Result()
		if err == nil {
			return nil
		}
		ylog.Errorf("DistributedUnLockWithRetry", "key %s, error %s.", rKey, err.Error())
		if retry < 0 {
			break
		}
		time.Sleep(1 * time.Second)
	}
	return err
}

func GetOutboundIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", err
	}
	defer func() {
		_ = conn.Close()
	}()
	localAddr := conn.LocalAddr().(*net.UDPAddr)
	return localAddr.IP.String(), nil
}
