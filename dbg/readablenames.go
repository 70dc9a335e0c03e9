package dbg

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	petname "github.com/dustinkirkland/golang-petname"
	"go.uber.org/zap"
)

// This converts arbitrary pointers into random readable names. It leaks
// memory but generates the names lazily, so it's not a problem unless you're
// actually using it. Log lines about kinetic vertices and triangles are much
// easier to follow with "BraveOtter" than with 0xc000123450.

var (
	mu   sync.Mutex
	memo = map[interface{}]string{}
)

func init() {
	// Since the names are generated in order of demand, we make them
	// nondeterministic to remind the user that the same name doesn't refer to
	// the same thing between runs.
	petname.NonDeterministicMode()
}

func Name(obj interface{}) string {
	if obj == nil {
		return "Ø"
	}
	if v := reflect.ValueOf(obj); v.Kind() == reflect.Ptr && v.IsNil() {
		return "Ø"
	}

	mu.Lock()
	defer mu.Unlock()
	if r, ok := memo[obj]; ok {
		return r
	}
	r := fmt.Sprintf("%s%s", strings.Title(petname.Adjective()), strings.Title(petname.Name()))
	memo[obj] = r
	return r
}

// Field is a zap field holding the readable name of obj.
func Field(key string, obj interface{}) zap.Field {
	return zap.String(key, Name(obj))
}
