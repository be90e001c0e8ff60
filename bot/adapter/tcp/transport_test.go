package adaptertcp

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"testing"
	"time"
)

func listen(t *testing.T) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })
	return ln
}

func TestDialer_Resolve(t *testing.T) {
	d := NewDialer(0)
	endpoints, err := d.Resolve(context.Background(), "127.0.0.1:4000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(endpoints) != 1 || endpoints[0] != "127.0.0.1:4000" {
		t.Errorf("endpoints = %v", endpoints)
	}

	if _, err := d.Resolve(context.Background(), "missing-port"); err == nil {
		t.Error("expected error for address without port")
	}
}

func TestDialer_ConnectNoEndpoints(t *testing.T) {
	if _, err := NewDialer(0).Connect(context.Background(), nil); !errors.Is(err, ErrNoEndpoints) {
		t.Fatalf("expected ErrNoEndpoints, got %v", err)
	}
}

func TestDialer_ConnectFallsBackToNextEndpoint(t *testing.T) {
	ln := listen(t)
	closed := listen(t)
	deadAddr := closed.Addr().String()
	closed.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			accepted <- conn
		}
	}()

	tr, err := NewDialer(time.Second).Connect(context.Background(), []string{deadAddr, ln.Addr().String()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer tr.Close()

	select {
	case conn := <-accepted:
		conn.Close()
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not accept")
	}
}

func TestTransport_ReadWrite(t *testing.T) {
	ln := listen(t)
	payload := strings.Repeat("x", ReadChunkSize+10)

	serverDone := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			serverDone <- ""
			return
		}
		defer conn.Close()
		line, _ := bufio.NewReader(conn).ReadString('\n')
		conn.Write([]byte(payload))
		serverDone <- line
	}()

	tr, err := NewDialer(time.Second).Connect(context.Background(), []string{ln.Addr().String()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer tr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := tr.Write(ctx, []byte("join|bot|secret\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if got := <-serverDone; got != "join|bot|secret\n" {
		t.Errorf("server received %q", got)
	}

	var received []byte
	for len(received) < len(payload) {
		data, err := tr.Read(ctx)
		if err != nil {
			t.Fatalf("Read failed after %d bytes: %v", len(received), err)
		}
		if len(data) > ReadChunkSize {
			t.Fatalf("Read returned %d bytes, max %d", len(data), ReadChunkSize)
		}
		received = append(received, data...)
	}
	if string(received) != payload {
		t.Error("payload mismatch")
	}

	if _, err := tr.Read(ctx); !errors.Is(err, io.EOF) {
		t.Errorf("expected EOF after peer close, got %v", err)
	}
}

func TestTransport_WriteCanceled(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()
	tr := NewTransportFrom(client)
	defer tr.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := tr.Write(ctx, []byte("move|up\n")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
