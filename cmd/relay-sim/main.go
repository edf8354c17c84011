// Command relay-sim impersonates the wearable relay: it streams a
// synthetic accelerometer oscillation and a drifting heart rate over
// the ingest websocket and fires periodic fatigue self-reports.
package main

import (
	"flag"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

// Default simulation constants.
const (
	defaultURL          = "ws://localhost:8080/ws"
	defaultDuration     = 60 * time.Second
	defaultSampleRate   = 60  // accelerometer Hz
	defaultOscillation  = 2.0 // Hz, lands in the spectral high band
	defaultAmplitude    = 8.0 // above the 5.0 peak height
	defaultBaseHR       = 75.0
	defaultTriggerEvery = 20 * time.Second
	defaultRPE          = 7.0
	batchInterval       = time.Second
)

type accelSample struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
	Timestamp string  `json:"timestamp"`
}

type message struct {
	Type      string        `json:"type"`
	Samples   []accelSample `json:"samples,omitempty"`
	HeartRate *float64      `json:"heart_rate,omitempty"`
	RPE       *float64      `json:"rpe,omitempty"`
}

func main() {
	var (
		url          = flag.String("url", defaultURL, "Ingest websocket URL")
		duration     = flag.Duration("duration", defaultDuration, "How long to stream")
		sampleRate   = flag.Int("rate", defaultSampleRate, "Accelerometer sample rate in Hz")
		oscillation  = flag.Float64("freq", defaultOscillation, "Motion oscillation frequency in Hz")
		amplitude    = flag.Float64("amp", defaultAmplitude, "Motion oscillation amplitude")
		baseHR       = flag.Float64("hr", defaultBaseHR, "Baseline heart rate in BPM")
		triggerEvery = flag.Duration("trigger-every", defaultTriggerEvery, "Interval between fatigue self-reports")
		rpe          = flag.Float64("rpe", defaultRPE, "RPE value attached to each self-report")
	)
	flag.Parse()

	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		os.Stderr.WriteString("dial failed: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer conn.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	batchTicker := time.NewTicker(batchInterval)
	defer batchTicker.Stop()
	triggerTicker := time.NewTicker(*triggerEvery)
	defer triggerTicker.Stop()
	deadline := time.After(*duration)

	start := time.Now()
	for {
		select {
		case <-sigCh:
			return
		case <-deadline:
			return
		case now := <-batchTicker.C:
			elapsed := now.Sub(start).Seconds()

			batch := make([]accelSample, *sampleRate)
			for i := range batch {
				t := elapsed + float64(i)/float64(*sampleRate)
				batch[i] = accelSample{
					X: rand.NormFloat64() * 0.2,
					Y: *amplitude * math.Sin(2*math.Pi**oscillation*t),
					Z: 1 + rand.NormFloat64()*0.2, // gravity plus noise
					Timestamp: now.Add(time.Duration(i) * time.Second / time.Duration(*sampleRate)).
						UTC().Format(time.RFC3339Nano),
				}
			}
			if err := conn.WriteJSON(message{Type: "acceleration", Samples: batch}); err != nil {
				os.Stderr.WriteString("write failed: " + err.Error() + "\n")
				return
			}

			// Heart rate creeps up over the session with some jitter.
			bpm := *baseHR + elapsed*0.2 + rand.NormFloat64()
			if err := conn.WriteJSON(message{Type: "heart_rate", HeartRate: &bpm}); err != nil {
				os.Stderr.WriteString("write failed: " + err.Error() + "\n")
				return
			}
		case <-triggerTicker.C:
			if err := conn.WriteJSON(message{Type: "fatigue", RPE: rpe}); err != nil {
				os.Stderr.WriteString("write failed: " + err.Error() + "\n")
				return
			}
		}
	}
}
