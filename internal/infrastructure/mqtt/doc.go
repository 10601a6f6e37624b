// Package mqtt wraps paho.mqtt.golang for the gateway's bus connection.
//
// One Client is owned by one bridge session. The initial connection attempt
// is not retried here: a failure surfaces to the session so the supervisor
// can apply its restart policy. After a successful connect, paho's
// auto-reconnect rides out transient broker outages and the package
// re-issues tracked subscriptions on every reconnect.
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err // fatal to the session
//	}
//	defer client.Close()
//
//	client.Subscribe("node/+/+/+/+/+", 1, func(topic string, payload []byte) {
//	    // runs on paho's delivery goroutine
//	})
//	client.Publish("node/1/sensor/temp/0/value", []byte("23.50"), 1, false)
//
// # TLS
//
// Setting mqtt.ca_certs switches the broker URL to ssl:// and verifies the
// broker against the given CA bundle; certfile/keyfile add a client
// certificate. The gateway passes these materials through and implements no
// broker security of its own.
package mqtt
