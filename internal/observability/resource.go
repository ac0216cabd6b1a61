package observability

import (
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// serviceResource builds the OTEL resource shared by the tracer and meter
// providers. Service attributes only; merging resource.Default() here
// caused schema-URL conflicts between SDK versions.
func serviceResource(name, version, environment string) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(name),
		semconv.ServiceVersion(version),
		semconv.DeploymentEnvironment(environment),
	)
}
