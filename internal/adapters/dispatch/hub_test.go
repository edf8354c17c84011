package dispatch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/strain/internal/adapters/dispatch"
	"github.com/okian/strain/internal/domain/model"
	"github.com/okian/strain/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	_ = logger.SetLevelString("error")
	os.Exit(m.Run())
}

// wsPair dials a throwaway websocket endpoint and returns both ends.
func wsPair(t *testing.T) (server, client *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	accepted := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Error(err)
			return
		}
		accepted <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { client.Close() })

	select {
	case server = <-accepted:
	case <-time.After(2 * time.Second):
		t.Fatal("no server-side connection")
	}
	t.Cleanup(func() { server.Close() })

	return server, client
}

func TestHub(t *testing.T) {
	Convey("Given an empty hub", t, func() {
		hub := dispatch.NewHub()

		Convey("When a mode is sent with nothing attached", func() {
			err := hub.Send(context.Background(), model.ModeReduce)

			Convey("Then the send reports no channel", func() {
				So(err, ShouldWrap, dispatch.ErrNoChannel)
			})
		})
	})

	Convey("Given a hub with one attached client", t, func() {
		server, client := wsPair(t)
		hub := dispatch.NewHub()
		hub.Attach(server)
		So(hub.Count(), ShouldEqual, 1)

		Convey("When a mode is sent", func() {
			So(hub.Send(context.Background(), model.ModeReduce), ShouldBeNil)

			Convey("Then the client receives it as JSON", func() {
				var msg struct {
					Mode string `json:"mode"`
				}
				_ = client.SetReadDeadline(time.Now().Add(2 * time.Second))
				So(client.ReadJSON(&msg), ShouldBeNil)
				So(msg.Mode, ShouldEqual, "reduce")
			})
		})

		Convey("When the client is detached", func() {
			hub.Detach(server)

			Convey("Then sends report no channel again", func() {
				So(hub.Count(), ShouldEqual, 0)
				So(hub.Send(context.Background(), model.ModeNormal), ShouldWrap, dispatch.ErrNoChannel)
			})
		})

		Convey("When the connection is already closed", func() {
			So(server.Close(), ShouldBeNil)

			err := hub.Send(context.Background(), model.ModeNormal)

			Convey("Then the dead client is dropped and the send fails", func() {
				So(err, ShouldWrap, dispatch.ErrSend)
				So(hub.Count(), ShouldEqual, 0)
			})
		})
	})

	Convey("Given a hub with a healthy and a dead client", t, func() {
		healthyServer, healthyClient := wsPair(t)
		deadServer, _ := wsPair(t)
		hub := dispatch.NewHub()
		hub.Attach(healthyServer)
		hub.Attach(deadServer)
		So(deadServer.Close(), ShouldBeNil)

		Convey("When a mode is sent", func() {
			err := hub.Send(context.Background(), model.ModeNormal)

			Convey("Then the healthy client still receives it", func() {
				So(err, ShouldBeNil)
				var msg struct {
					Mode string `json:"mode"`
				}
				_ = healthyClient.SetReadDeadline(time.Now().Add(2 * time.Second))
				So(healthyClient.ReadJSON(&msg), ShouldBeNil)
				So(msg.Mode, ShouldEqual, "normal")
			})

			Convey("And the dead one is detached", func() {
				So(hub.Count(), ShouldEqual, 1)
			})
		})
	})
}
