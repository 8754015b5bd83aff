package module

type options struct {
	serviceName string
	version     string
}

// Option customizes module assembly
type Option func(*options)

func defaultOptions() options {
	return options{serviceName: "riskgate", version: "dev"}
}

// WithServiceName overrides the banner service name
func WithServiceName(name string) Option {
	return func(o *options) { o.serviceName = name }
}

// WithVersion sets the reported build version
func WithVersion(v string) Option {
	return func(o *options) { o.version = v }
}
