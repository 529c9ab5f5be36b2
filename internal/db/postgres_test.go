package db

import "testing"

func TestConnString(t *testing.T) {
	cases := []struct {
		name string
		cfg  PostgresConfig
		want string
	}{
		{
			name: "fields",
			cfg:  PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "adcopy"},
			want: "postgres://u:p@db:5432/adcopy?sslmode=disable",
		},
		{
			name: "ssl_mode",
			cfg:  PostgresConfig{Host: "db", Port: 6432, User: "u", Name: "adcopy", SSLMode: "require"},
			want: "postgres://u:@db:6432/adcopy?sslmode=require",
		},
		{
			name: "dsn_wins",
			cfg:  PostgresConfig{DSN: " postgres://x@y/z ", Host: "ignored"},
			want: "postgres://x@y/z",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cfg.ConnString(); got != tc.want {
				t.Fatalf("ConnString()=%q want %q", got, tc.want)
			}
		})
	}
}
