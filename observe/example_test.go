package observe_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jonwraymond/typeahead/cache"
	"github.com/jonwraymond/typeahead/observe"
)

func ExampleNewObserver() {
	cfg := observe.Config{
		ServiceName: "typeahead",
		Version:     "1.0.0",
		Tracing:     observe.TracingConfig{Enabled: true, Exporter: "none"},
		Metrics:     observe.MetricsConfig{Enabled: false},
		Logging:     observe.LoggingConfig{Enabled: false},
	}

	ctx := context.Background()
	obs, err := observe.NewObserver(ctx, cfg)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	defer func() {
		_ = obs.Shutdown(ctx)
	}()

	fmt.Println("Observer created successfully")
	// Output:
	// Observer created successfully
}

func ExampleNewObserver_validation() {
	_, err := observe.NewObserver(context.Background(), observe.Config{})
	if errors.Is(err, observe.ErrMissingServiceName) {
		fmt.Println("Caught: missing service name")
	}
	// Output:
	// Caught: missing service name
}

func ExampleFillMeta_SpanName() {
	fmt.Println(observe.FillMeta{Namespace: "users"}.SpanName())
	fmt.Println(observe.FillMeta{}.SpanName())
	// Output:
	// cache.fill users
	// cache.fill
}

func ExampleNewLoggerWithWriter() {
	var buf bytes.Buffer
	logger := observe.NewLoggerWithWriter("info", &buf).With(
		observe.Field{Key: "component", Value: "search"},
	)

	logger.Info(context.Background(), "suggestions served",
		observe.Field{Key: "query", Value: "le"},
		observe.Field{Key: "token", Value: "hidden"},
	)

	var entry map[string]any
	_ = json.Unmarshal(buf.Bytes(), &entry)
	fmt.Println(entry["message"], entry["component"], entry["query"], entry["token"])
	// Output:
	// suggestions served search le [REDACTED]
}

func ExampleInstrumentProducer() {
	mw := observe.NewMiddleware(nil, observe.NopLogger())
	memo := cache.New[string](cache.WithNamespace("users"))

	fetch := observe.InstrumentProducer(mw, observe.FillMeta{Namespace: "users", Key: "GET||USERS"},
		func(ctx context.Context) (string, error) {
			return "Leanne Graham", nil
		},
	)

	v, err := memo.Do(context.Background(), "GET||USERS", time.Minute, fetch)
	fmt.Println(v, err)
	// Output:
	// Leanne Graham <nil>
}

func ExampleParseLogLevel() {
	fmt.Println(observe.ParseLogLevel("warn"))
	fmt.Println(observe.ParseLogLevel("unknown"))
	// Output:
	// warn
	// info
}
