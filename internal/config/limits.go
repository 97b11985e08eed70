package config

const (
	// MaxTitleLength is the maximum length for document titles.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxTitleLength = 255

	// MaxSigners caps the signers of one signature request
	MaxSigners = 10

	// MaxWebhookBodyBytes bounds provider callbacks. Dropbox Sign events are a few KB.
	MaxWebhookBodyBytes = 1 << 20
)
