package log

// Field represents a structured log field with a key and value
type Field struct {
	Key   string
	Value interface{}
}

// Err creates an error field
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Str creates a string field
func Str(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an integer field
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Component tags an entry with the emitting component.
func Component(value string) Field {
	return Field{Key: ComponentKey, Value: value}
}

// File records the file an entry is about.
func File(path string) Field {
	return Field{Key: FileKey, Value: path}
}

// Key records the properties key an entry is about.
func Key(name string) Field {
	return Field{Key: KeyKey, Value: name}
}
