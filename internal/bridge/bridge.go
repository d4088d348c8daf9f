// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Luxcraft Works

// Package bridge exposes the DMX engine over MQTT so home-automation
// controllers can drive the fixture without speaking DMX. It subscribes to
// channel-set and blackout topics and publishes a retained status snapshot.
package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"

	"github.com/luxcraft/beamcast/internal/config"
	"github.com/luxcraft/beamcast/pkg/dmx"
)

// statusInterval is the heartbeat period for the retained status topic.
// Status is also published on every engine state change.
const statusInterval = 5 * time.Second

// Engine is the controller surface the bridge drives. *dmx.Controller
// satisfies it.
type Engine interface {
	SetChannels(values map[int]int) error
	Blackout()
	Status() dmx.Status
	AddListener(l dmx.Listener) (remove func())
}

// Command is one channel write in a set payload.
type Command struct {
	Channel int `json:"channel"`
	Value   int `json:"value"`
}

// statusReport is the status topic payload.
type statusReport struct {
	State     string  `json:"state"`
	Connected bool    `json:"connected"`
	Endpoint  string  `json:"endpoint,omitempty"`
	TargetHz  int     `json:"targetHz"`
	Frames    uint64  `json:"frames"`
	Drops     uint64  `json:"drops"`
	Rate      float64 `json:"rate"`
}

// Bridge couples one MQTT session to one engine. Topics live under the
// configured prefix: <p>/set, <p>/blackout, <p>/status.
type Bridge struct {
	cfg    config.MQTT
	engine Engine
	log    logrus.FieldLogger

	client mqtt.Client
	remove func()
	done   chan struct{}
	wg     sync.WaitGroup
}

// New builds a bridge. Call Start to connect.
func New(cfg config.MQTT, engine Engine, log logrus.FieldLogger) *Bridge {
	return &Bridge{
		cfg:    cfg,
		engine: engine,
		log:    log.WithField("module", "bridge"),
	}
}

// Start connects to the broker and begins serving. The client reconnects
// on its own after broker outages; subscriptions are re-established in the
// on-connect handler because a clean session drops them.
func (b *Bridge) Start(ctx context.Context) error {
	opts := mqtt.NewClientOptions().
		AddBroker(b.cfg.Broker).
		SetClientID(b.cfg.ClientID).
		SetUsername(b.cfg.User).
		SetPassword(b.cfg.Password).
		SetOnConnectHandler(b.onConnect).
		SetConnectionLostHandler(b.onConnectionLost).
		SetOrderMatters(false).
		SetAutoReconnect(true).
		SetKeepAlive(30 * time.Second)

	b.client = mqtt.NewClient(opts)

	token := b.client.Connect()
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("connect to %s: %w", b.cfg.Broker, err)
		}
	case <-ctx.Done():
		return ctx.Err()
	}

	b.remove = b.engine.AddListener(dmx.ListenerFunc(func(e dmx.Event) {
		if e.Type == dmx.EventFrame {
			return
		}
		b.publishStatus()
	}))

	b.done = make(chan struct{})
	b.wg.Add(1)
	go b.heartbeat()

	b.log.WithField("broker", b.cfg.Broker).Info("bridge started")
	return nil
}

// Stop detaches from the engine and disconnects from the broker. Safe to
// call without a successful Start.
func (b *Bridge) Stop() {
	if b.remove != nil {
		b.remove()
		b.remove = nil
	}
	if b.done != nil {
		close(b.done)
		b.wg.Wait()
		b.done = nil
	}
	if b.client != nil && b.client.IsConnected() {
		b.client.Disconnect(500)
	}
	b.log.Info("bridge stopped")
}

func (b *Bridge) topic(leaf string) string {
	return b.cfg.TopicPrefix + "/" + leaf
}

func (b *Bridge) onConnect(mqtt.Client) {
	b.log.Info("connected to broker")
	b.subscribe(b.topic("set"), b.handleSet)
	b.subscribe(b.topic("blackout"), b.handleBlackout)
	b.publishStatus()
}

func (b *Bridge) onConnectionLost(_ mqtt.Client, err error) {
	b.log.WithError(err).Warn("broker connection lost")
}

func (b *Bridge) subscribe(topic string, handler mqtt.MessageHandler) {
	token := b.client.Subscribe(topic, b.cfg.QoS, handler)
	go func() {
		token.Wait()
		if err := token.Error(); err != nil {
			b.log.WithError(err).WithField("topic", topic).Error("subscribe failed")
			return
		}
		b.log.WithField("topic", topic).Debug("subscribed")
	}()
}

func (b *Bridge) handleSet(_ mqtt.Client, msg mqtt.Message) {
	if err := b.applySet(msg.Payload()); err != nil {
		b.log.WithError(err).WithField("topic", msg.Topic()).Error("set rejected")
	}
}

func (b *Bridge) handleBlackout(_ mqtt.Client, msg mqtt.Message) {
	b.log.WithField("topic", msg.Topic()).Info("blackout requested")
	b.engine.Blackout()
	b.publishStatus()
}

// applySet decodes a JSON command array and pushes it at the engine.
func (b *Bridge) applySet(payload []byte) error {
	var cmds []Command
	if err := json.Unmarshal(payload, &cmds); err != nil {
		return fmt.Errorf("parse set payload: %w", err)
	}
	if len(cmds) == 0 {
		return nil
	}

	values := make(map[int]int, len(cmds))
	for _, cmd := range cmds {
		values[cmd.Channel] = cmd.Value
	}
	return b.engine.SetChannels(values)
}

// statusPayload renders the engine status for the status topic.
func (b *Bridge) statusPayload() ([]byte, error) {
	st := b.engine.Status()
	return json.Marshal(statusReport{
		State:     st.State.String(),
		Connected: st.Connected,
		Endpoint:  st.Endpoint,
		TargetHz:  st.TargetRate,
		Frames:    st.Stats.Frames,
		Drops:     st.Stats.Drops,
		Rate:      st.Stats.Rate,
	})
}

func (b *Bridge) publishStatus() {
	payload, err := b.statusPayload()
	if err != nil {
		return
	}
	// Retained, so controllers see the last state right on subscribe.
	b.client.Publish(b.topic("status"), b.cfg.QoS, true, payload)
}

func (b *Bridge) heartbeat() {
	defer b.wg.Done()

	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.done:
			return
		case <-ticker.C:
			b.publishStatus()
		}
	}
}
