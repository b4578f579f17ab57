package settings

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestSettings_Defaults(t *testing.T) {
	s := &Settings{}

	if got := s.GetRedisAddr(); got != DefaultRedisAddr {
		t.Errorf("GetRedisAddr() default = %q, want %q", got, DefaultRedisAddr)
	}
	if got := s.GetSpecDir(); !strings.HasSuffix(got, filepath.Join(".spconf", "specs")) {
		t.Errorf("GetSpecDir() default = %q", got)
	}
	if got := s.GetAuditLog(); !strings.HasSuffix(got, filepath.Join(".spconf", "audit.log")) {
		t.Errorf("GetAuditLog() default = %q", got)
	}
	if s.DefaultHost != "" {
		t.Errorf("DefaultHost should be empty, got %q", s.DefaultHost)
	}
}

func TestSettings_SetGet(t *testing.T) {
	s := &Settings{}

	for _, key := range s.Keys() {
		if err := s.Set(key, "v-"+key); err != nil {
			t.Fatalf("Set(%q) error = %v", key, err)
		}
		got, err := s.Get(key)
		if err != nil || got != "v-"+key {
			t.Errorf("Get(%q) = %q, %v", key, got, err)
		}
	}
	if s.DefaultHost != "v-default_host" || s.RedisAddr != "v-redis_addr" {
		t.Errorf("Set did not reach fields: %+v", s)
	}
	if s.GetRedisAddr() != "v-redis_addr" || s.GetSpecDir() != "v-spec_dir" || s.GetAuditLog() != "v-audit_log" {
		t.Errorf("getters ignore stored values: %+v", s)
	}

	if err := s.Set("colour", "x"); err == nil {
		t.Error("Set of unknown key should fail")
	}
	if _, err := s.Get("colour"); err == nil {
		t.Error("Get of unknown key should fail")
	}
}

func TestSettings_Keys(t *testing.T) {
	want := []string{"audit_log", "default_host", "redis_addr", "spec_dir", "username"}
	if got := (&Settings{}).Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestSettings_Clear(t *testing.T) {
	s := &Settings{DefaultHost: "sp", Username: "admin", SpecDir: "/path"}
	s.Clear()
	if !reflect.DeepEqual(s, &Settings{}) {
		t.Errorf("Clear() left %+v", s)
	}
}

func TestSettings_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")

	s := &Settings{DefaultHost: "sp-leader", Username: "admin", RedisAddr: "10.0.0.1:6379"}
	if err := s.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if !reflect.DeepEqual(loaded, s) {
		t.Errorf("LoadFrom() = %+v, want %+v", loaded, s)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("settings mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestSettings_LoadMissing(t *testing.T) {
	s, err := LoadFrom(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if !reflect.DeepEqual(s, &Settings{}) {
		t.Errorf("LoadFrom() = %+v, want empty", s)
	}
}

func TestSettings_LoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom() of invalid JSON should fail")
	}
}
