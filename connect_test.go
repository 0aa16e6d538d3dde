package milter

import "testing"

func TestConnectFamilyString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		f    ConnectFamily
		want string
	}{
		{"unknown", ConnectUnknown, "unknown"},
		{"inet", ConnectInet, "inet"},
		{"inet6", ConnectInet6, "inet6"},
		{"unix", ConnectUnix, "unix"},
		{"invalid", ConnectFamily('?'), "invalid"},
	}
	for _, tt_ := range tests {
		tt := tt_
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.f.String(); got != tt.want {
				t.Errorf("ConnectFamily.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToASCIIHostname(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"already ascii", "mail.example.com", "mail.example.com", false},
		{"internationalized", "xn--fsq.example.com", "xn--fsq.example.com", false},
	}
	for _, tt_ := range tests {
		tt := tt_
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ToASCIIHostname(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ToASCIIHostname(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ToASCIIHostname(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
