package s3

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "rendered/u/1.pdf", want: "rendered/u/1.pdf"},
		{name: "simple prefix", prefix: "root", key: "rendered/u/1.pdf", want: "root/rendered/u/1.pdf"},
		{name: "prefix trailing slash", prefix: "root/", key: "rendered/u/1.pdf", want: "root/rendered/u/1.pdf"},
		{name: "prefix and key slashes", prefix: "/root/", key: "/rendered/u/1.pdf", want: "root/rendered/u/1.pdf"},
		{name: "empty key", prefix: "root", key: "", want: "root"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Options{Region: "us-east-1"}); err == nil {
		t.Fatalf("expected error without bucket")
	}
}

func TestApplyEncryption(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		store Store
		want  s3types.ServerSideEncryption
	}{
		{name: "aws default", store: Store{sse: true}, want: s3types.ServerSideEncryptionAes256},
		{name: "kms key", store: Store{sse: true, kmsKeyID: "key-1"}, want: s3types.ServerSideEncryptionAwsKms},
		{name: "compatible endpoint", store: Store{sse: false}, want: ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			input := &s3.PutObjectInput{}
			tt.store.applyEncryption(input)
			if input.ServerSideEncryption != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, input.ServerSideEncryption)
			}
		})
	}
}
