package main

import (
	"bufio"
	"context"
	"flag"
	"io"
	"log"
	"net"
	"net/url"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/chipsynth/chipsynth/src/synth"
	"golang.org/x/sync/errgroup"
)

const sockFileName = "/tmp/chipsynth.sock"

func main() {
	flag.Parse()
	log.SetFlags(log.Lshortfile)
	log.Printf("NumCPU: %v\n", runtime.NumCPU())

	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s, err := synth.NewSynth()
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}
	defer s.Close()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, os.Kill, syscall.SIGTERM)
	defer func() {
		signal.Stop(signalCh)
		cancel()
	}()
	go func() {
		sig := <-signalCh
		log.Printf("Caught signal %s: shutting down...\n", sig)
		cancel()
	}()
	err = withIPCConnection(ctx, func(conn net.Conn) error {
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return s.Start(ctx)
		})
		g.Go(func() error {
			return receiveCommands(ctx, conn, s.CommandCh)
		})
		g.Go(func() error {
			return sendReports(ctx, conn, s)
		})
		g.Go(func() error {
			return forwardMidi(ctx, s)
		})
		return g.Wait()
	})
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}
	log.Println("main() ended.")
}

func withIPCConnection(ctx context.Context, f func(net.Conn) error) error {
	os.Remove(sockFileName)
	listener, err := new(net.ListenConfig).Listen(ctx, "unix", sockFileName)
	if err != nil {
		return err
	}
	defer func() {
		log.Println("Closing IPC...")
		err := listener.Close()
		if err != nil {
			log.Printf("error while closing listener: %v", err)
		}
		os.Remove(sockFileName)
	}()
	log.Printf("start listening...\n")
	conn, err := listener.Accept()
	if err != nil {
		return err
	}
	defer func() {
		err := conn.Close()
		if err != nil {
			log.Printf("error while closing connection: %v", err)
		}
	}()
	return f(conn)
}

func receiveCommands(ctx context.Context, conn net.Conn, commandCh chan<- []string) error {
	reader := bufio.NewReader(conn)
	var line []byte
loop:
	for {
		select {
		case <-ctx.Done():
			log.Println("Connection interrupted")
			break loop
		default:
		}
		next, isPrefix, err := reader.ReadLine()
		if err == io.EOF {
			break loop
		}
		if err != nil {
			return err
		}
		line = append(line, next...)
		if isPrefix {
			continue
		}
		command, err := parseCommand(string(line))
		if err != nil {
			return err
		}
		commandCh <- command
		log.Printf("received: %s\n", string(line))
		line = []byte{}
	}
	log.Println("receiveCommands() ended.")
	return nil
}

func parseCommand(line string) ([]string, error) {
	lineStr := strings.Split(line, " ")
	for i, item := range lineStr {
		escaped, err := url.QueryUnescape(item)
		if err != nil {
			return nil, err
		}
		lineStr[i] = escaped
	}
	return lineStr, nil
}

func sendReports(ctx context.Context, conn net.Conn, s *synth.Synth) error {
	t := time.NewTicker(time.Second / 60)
	defer t.Stop()
loop:
	for {
		select {
		case <-ctx.Done():
			log.Println("sendReports() interrupted")
			break loop
		case <-t.C:
			result := s.GetFFT()
			if result == nil {
				continue
			}
			out := "fft"
			for _, value := range result {
				out += " " + strconv.FormatFloat(value, 'f', 6, 64)
			}
			select {
			case <-ctx.Done():
				log.Println("sendReports() interrupted")
				break loop
			default:
				conn.Write([]byte(out + "\n"))
			}
		}
	}
	log.Println("sendReports() ended.")
	return nil
}

func forwardMidi(ctx context.Context, s *synth.Synth) error {
	midiCh := synth.ListenToMidiIn(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Println("forwardMidi() ended.")
			return nil
		case data, ok := <-midiCh:
			if !ok {
				log.Println("forwardMidi() ended.")
				return nil
			}
			if len(data) >= 3 {
				s.AddMidiEvent(data)
			}
		}
	}
}
