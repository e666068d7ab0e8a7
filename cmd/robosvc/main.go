// cmd/robosvc/main.go
package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	config "github.com/avvvet/cavacamisa-services/configs"
	"github.com/avvvet/cavacamisa-services/internal/comm"
	natscli "github.com/avvvet/cavacamisa-services/internal/nats"
	"github.com/avvvet/cavacamisa-services/internal/robosvc/robot"
)

const SERVICE_NAME = "robot"

var instanceId string

func init() {
	config.LoadEnv(SERVICE_NAME)
	instanceId = config.CreateUniqueInstance(SERVICE_NAME)
	config.Logging(SERVICE_NAME + "_service_" + instanceId)
}

func main() {
	log.Printf("Starting Robot Service...")

	nc, err := natscli.Connect(os.Getenv("NATS_URL"), os.Getenv("NATS_TOKEN"), SERVICE_NAME+"-"+instanceId)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer nc.Conn.Close()
	log.Infof("NATS connected at %s", nc.Url)

	r := robot.New(nc.Conn, "robot-"+instanceId, robot.Options{
		Patience:     duration("ROBOT_PATIENCE", 15*time.Second),
		PlayDelay:    duration("ROBOT_PLAY_DELAY", time.Second),
		ReplyTimeout: duration("ROBOT_REPLY_TIMEOUT", 30*time.Second),
	})

	sub, err := nc.Conn.Subscribe(comm.TopicGameService, r.HandleMessage)
	if err != nil {
		log.Fatalf("Failed to subscribe to %s: %v", comm.TopicGameService, err)
	}

	stop := make(chan struct{})
	go r.Monitor(duration("ROBOT_POLL_INTERVAL", 5*time.Second), stop)

	log.Printf("Robot Service fully operational!")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	close(stop)
	sub.Unsubscribe()
	log.Infof("%s service stopped", SERVICE_NAME)
}

func duration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		log.Warnf("invalid %s value %q, using %s", key, raw, fallback)
		return fallback
	}
	return d
}
