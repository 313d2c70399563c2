package configtest

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"go.uber.org/multierr"
)

const modulePath = "github.com/livekit/meshsignal"

var durationType = reflect.TypeOf(time.Duration(0))

type tagChecker struct {
	visited map[reflect.Type]bool
	errs    error
}

// CheckYAMLTags reports every non-boolean field of config that would be serialized when empty.
// Fields tagged `config:"allowempty"` or `yaml:"-"` are skipped, as are structs declared outside this module.
func CheckYAMLTags(config any) error {
	c := &tagChecker{visited: map[reflect.Type]bool{}}
	c.walk(reflect.TypeOf(config), reflect.TypeOf(config).Name())
	return c.errs
}

func (c *tagChecker) walk(t reflect.Type, path string) {
	for t.Kind() == reflect.Pointer || t.Kind() == reflect.Slice || t.Kind() == reflect.Array || t.Kind() == reflect.Map {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || t == durationType || c.visited[t] {
		return
	}
	// structs from other modules, like the embedded logger config, follow their own tagging
	if !strings.HasPrefix(t.PkgPath(), modulePath) {
		return
	}
	c.visited[t] = true

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name, opts, _ := strings.Cut(field.Tag.Get("yaml"), ",")
		if name == "-" {
			continue
		}
		fieldPath := path + "." + field.Name

		inline := hasOption(opts, "inline")
		if !inline && field.Type.Kind() != reflect.Bool && field.Tag.Get("config") != "allowempty" && !hasOption(opts, "omitempty") {
			c.errs = multierr.Append(c.errs, fmt.Errorf("%s (%s) missing omitempty tag", fieldPath, t.PkgPath()))
		}
		c.walk(field.Type, fieldPath)
	}
}

func hasOption(opts string, option string) bool {
	for _, o := range strings.Split(opts, ",") {
		if o == option {
			return true
		}
	}
	return false
}
