package tracing

import (
	"context"
	"log"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	service = "cmk"
	envVar  = "CMK_TRACE"
)

// tracerProvider returns a TracerProvider that batches spans to the Jaeger
// agent at hostAndPort.
func tracerProvider(hostAndPort string) (*tracesdk.TracerProvider, error) {
	parts := strings.Split(hostAndPort, ":")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, errors.Errorf("%s must be in the form host:port, got %q", envVar, hostAndPort)
	}
	jaegerBatcher, err := jaeger.New(jaeger.WithAgentEndpoint(
		jaeger.WithAgentHost(parts[0]),
		jaeger.WithAgentPort(parts[1]),
	))
	if err != nil {
		return nil, err
	}
	return tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(jaegerBatcher),
		tracesdk.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(service),
			attribute.String("os", runtime.GOOS),
		)),
	), nil
}

var (
	tp *tracesdk.TracerProvider
)

func init() {
	hostAndPort, found := os.LookupEnv(envVar)
	if !found {
		// Never collect traces if we're not gathering them
		tp = tracesdk.NewTracerProvider(tracesdk.WithSampler(tracesdk.NeverSample()))
		return
	}
	var err error
	tp, err = tracerProvider(hostAndPort)
	if err != nil {
		log.Println(err)
		tp = tracesdk.NewTracerProvider(tracesdk.WithSampler(tracesdk.NeverSample()))
		return
	}

	otel.SetTracerProvider(tp)
}

func Tracer(name string) trace.Tracer {
	if tp == nil {
		panic("tracing provider hasn't been initialized")
	}
	return tp.Tracer(name)
}

func Stop() {
	if tp == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*1)
	defer cancel()
	if err := tp.Shutdown(ctx); err != nil {
		log.Println(err)
	}
}
