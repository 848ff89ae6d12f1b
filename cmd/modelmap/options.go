package main

// Options are the modelmap commands.
type Options struct {
	Decode *Decode `command:"decode" description:"decode a JSON document into a catalog model and print it back"`
	Models *Models `command:"models" description:"list the catalog models and dynamic type tags"`
}

// NewOptions allocates every command so a command given without flags is still populated.
func NewOptions() *Options {
	return &Options{Decode: &Decode{}, Models: &Models{}}
}

// Decode decodes one document (an object, or an array of objects) into a model.
type Decode struct {
	Model        string `short:"m" long:"model" description:"catalog model name" required:"true"`
	Input        string `short:"i" long:"input" description:"document URL (file path, file://, mem://, s3://, gs://)" required:"true"`
	ConfigURL    string `short:"c" long:"config" description:"mapper configuration URL"`
	Strict       bool   `short:"s" long:"strict" description:"fail when a decoded property holds no value"`
	ValidateTags bool   `short:"v" long:"validate-tags" description:"run validate struct tag checks"`
	Archive      string `short:"a" long:"archive" description:"also write a msgpack archive of the model to this URL"`
	Report       bool   `short:"r" long:"report" description:"print tolerated failures and unknown keys to stderr"`
}

// Models lists what the decode command accepts.
type Models struct {
	Properties bool `short:"p" long:"properties" description:"list the properties of every model"`
}
