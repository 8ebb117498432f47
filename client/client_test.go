package client

import (
	"io"
	"math"
	"net"
	"testing"
	"time"

	"github.com/lixenwraith/coin-collector/network"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func nearly(a, b Vec) bool {
	return math.Abs(a.Row-b.Row) < 1e-9 && math.Abs(a.Col-b.Col) < 1e-9
}

func TestInterpolateMidpoint(t *testing.T) {
	clock := NewMockClock(epoch)
	scene := NewScene(200 * time.Millisecond)
	recv := NewReceiver(scene)

	if !recv.Apply("1 1 5 6 2 2 0 0\n", clock.Now()) {
		t.Fatal("first state rejected")
	}
	clock.Advance(time.Second)
	recv.Apply("3 4 5 6 2 2 10 0\n", clock.Now())
	clock.Advance(100 * time.Millisecond)

	f := scene.Frame(clock.Now())
	if !nearly(f.Self, Vec{Row: 2.0, Col: 2.5}) {
		t.Errorf("self = %+v, want (2.0, 2.5)", f.Self)
	}
	if !nearly(f.Other, VecOf(5, 6)) {
		t.Errorf("stationary other moved: %+v", f.Other)
	}
	if f.SelfScore != 10 || f.OtherScore != 0 {
		t.Errorf("scores = %d/%d", f.SelfScore, f.OtherScore)
	}
}

func TestInterpolateClamps(t *testing.T) {
	var e Entity
	e.Snap(VecOf(0, 0), epoch)
	e.Retarget(VecOf(2, 4), epoch)

	tests := []struct {
		name string
		at   time.Duration
		want Vec
	}{
		{"before update", -50 * time.Millisecond, VecOf(0, 0)},
		{"at update", 0, VecOf(0, 0)},
		{"quarter", 50 * time.Millisecond, Vec{Row: 0.5, Col: 1}},
		{"end of window", 200 * time.Millisecond, VecOf(2, 4)},
		{"past window", time.Second, VecOf(2, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Interpolate(epoch.Add(tt.at), 200*time.Millisecond)
			if !nearly(got, tt.want) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
	if got := e.Interpolate(epoch, 0); got != e.Target {
		t.Errorf("zero window = %+v", got)
	}
}

func TestFirstStateSnaps(t *testing.T) {
	scene := NewScene(200 * time.Millisecond)
	recv := NewReceiver(scene)
	recv.Apply(network.NoticeGameStart, epoch)
	if f := scene.Frame(epoch); f.Ready || f.Notice != "game start!" {
		t.Fatalf("frame before state = %+v", f)
	}

	recv.Apply("9 19 0 0 4 7 0 0\n", epoch)
	f := scene.Frame(epoch)
	if !f.Ready || f.Notice != "" {
		t.Fatalf("frame after state = %+v", f)
	}
	// No blend from the origin on the first frame
	if !nearly(f.Self, VecOf(9, 19)) || !nearly(f.Coin, VecOf(4, 7)) {
		t.Errorf("first frame = %+v", f)
	}
}

func TestGameStartSnapsNewMatch(t *testing.T) {
	scene := NewScene(200 * time.Millisecond)
	recv := NewReceiver(scene)
	recv.Apply(network.NoticeGameStart, epoch)
	recv.Apply("0 0 9 19 4 7 0 0\n", epoch)
	recv.Apply("5 8 2 3 4 7 30 20\n", epoch.Add(time.Second))

	// Opponent left and the slot was refilled: the next match restarts from the corners
	now := epoch.Add(2 * time.Second)
	recv.Apply(network.NoticeGameStart, now)
	if f := scene.Frame(now); f.Ready {
		t.Fatalf("frame after game start still ready: %+v", f)
	}
	recv.Apply("9 19 0 0 1 1 0 0\n", now)

	f := scene.Frame(now.Add(time.Millisecond))
	if !nearly(f.Self, VecOf(9, 19)) || !nearly(f.Other, VecOf(0, 0)) || !nearly(f.Coin, VecOf(1, 1)) {
		t.Errorf("new match glided instead of snapping: %+v", f)
	}
	if f.SelfScore != 0 || f.OtherScore != 0 {
		t.Errorf("scores carried over: %+v", f)
	}
}

func TestMalformedLinesIgnored(t *testing.T) {
	scene := NewScene(0)
	recv := NewReceiver(scene)
	recv.Apply("1 2 3 4 5 6 7 8\n", epoch)

	for _, line := range []string{"1 2 3\n", "a b c d e f g h\n", "1 2 3 4 5 6 7 8 9\n", "\n", "4 4"} {
		if recv.Apply(line, epoch.Add(time.Second)) {
			t.Errorf("accepted %q", line)
		}
	}
	if scene.Updates() != 1 {
		t.Errorf("updates = %d", scene.Updates())
	}
	f := scene.Frame(epoch.Add(time.Second))
	if !nearly(f.Self, VecOf(1, 2)) || f.Notice != "" {
		t.Errorf("frame changed: %+v", f)
	}
}

func TestSceneEnd(t *testing.T) {
	scene := NewScene(0)
	scene.End()
	scene.End()
	select {
	case <-scene.Done():
	default:
		t.Fatal("Done not closed")
	}
	if !scene.Frame(epoch).Over {
		t.Error("frame not marked over")
	}
}

func TestSessionRoundTrip(t *testing.T) {
	serverSide, clientSide := net.Pipe()
	defer serverSide.Close()

	clock := NewMockClock(epoch)
	scene := NewScene(200 * time.Millisecond)
	sess := NewSession(clientSide, scene, clock, nil)

	runErr := make(chan error, 1)
	go func() { runErr <- sess.Run() }()

	lines := network.NoticeWaiting + network.NoticeGameStart + "0 0 9 19 5 5 0 0\n" + "1 0 9 19 5 5 0 0\n"
	if _, err := io.WriteString(serverSide, lines); err != nil {
		t.Fatalf("write: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for scene.Updates() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("updates = %d", scene.Updates())
		}
		time.Sleep(5 * time.Millisecond)
	}

	sent := make(chan byte, 1)
	go func() {
		buf := make([]byte, 1)
		if _, err := serverSide.Read(buf); err == nil {
			sent <- buf[0]
		}
	}()
	if err := sess.Send(network.CmdRight); err != nil {
		t.Fatalf("send: %v", err)
	}
	select {
	case b := <-sent:
		if b != network.CmdRight {
			t.Errorf("server got %q", b)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("command not delivered")
	}

	serverSide.Close()
	select {
	case err := <-runErr:
		if err != nil {
			t.Errorf("Run = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after server close")
	}
	if !scene.Over() {
		t.Error("scene not ended")
	}
	if err := sess.Send(network.CmdUp); err == nil {
		t.Error("Send after game over succeeded")
	}
	sess.Close()
}
