package measurement

import (
	"context"
	"errors"
	"testing"

	"tailorshop/internal/ui/shopapi"
)

type answer bool

func (a answer) Confirm(prompt string) bool {
	return bool(a)
}

type alerts struct{ messages []string }

func (a *alerts) Alert(msg string) { a.messages = append(a.messages, msg) }

type fakeRemover struct {
	result shopapi.Result
	err    error
	calls  int
	token  string
	id     string
}

func (f *fakeRemover) DeleteMeasurement(_ context.Context, id, token string) (shopapi.Result, error) {
	f.calls++
	f.id, f.token = id, token
	return f.result, f.err
}

type refresher struct{ loaded []string }

func (r *refresher) Load(_ context.Context, id string) error {
	r.loaded = append(r.loaded, id)
	return nil
}

func TestDeclinedSendsNoRequest(t *testing.T) {
	rm := &fakeRemover{}
	d := &Deleter{Client: rm, Confirm: answer(false)}
	if got := d.Delete(context.Background(), "m1", "c1"); got != Declined {
		t.Errorf("outcome = %v, want Declined", got)
	}
	if rm.calls != 0 {
		t.Errorf("requests = %d, want 0", rm.calls)
	}
}

func TestDeleteSuccessRefreshesProfile(t *testing.T) {
	rm := &fakeRemover{result: shopapi.Result{Success: true}}
	ref := &refresher{}
	al := &alerts{}
	d := &Deleter{
		Client:  rm,
		Confirm: answer(true),
		Alert:   al,
		Profile: ref,
		Tokens:  []TokenSource{TokenFunc(func() string { return "" }), TokenFunc(func() string { return "meta-token" })},
	}

	if got := d.Delete(context.Background(), "m1", "c1"); got != Deleted {
		t.Fatalf("outcome = %v, want Deleted", got)
	}
	if rm.id != "m1" || rm.token != "meta-token" {
		t.Errorf("request id=%q token=%q", rm.id, rm.token)
	}
	if len(ref.loaded) != 1 || ref.loaded[0] != "c1" {
		t.Errorf("refreshed = %v, want [c1]", ref.loaded)
	}
	if len(al.messages) != 0 {
		t.Errorf("alerts = %v", al.messages)
	}
}

func TestFormTokenWinsOverMeta(t *testing.T) {
	rm := &fakeRemover{result: shopapi.Result{Success: true}}
	d := &Deleter{
		Client:  rm,
		Confirm: answer(true),
		Tokens:  []TokenSource{TokenFunc(func() string { return "form-token" }), TokenFunc(func() string { return "meta-token" })},
	}
	d.Delete(context.Background(), "m1", "c1")
	if rm.token != "form-token" {
		t.Errorf("token = %q, want form-token", rm.token)
	}
}

func TestDeleteRejectedAlertsMessage(t *testing.T) {
	rm := &fakeRemover{result: shopapi.Result{Success: false, Message: "Measurement not found"}}
	ref := &refresher{}
	al := &alerts{}
	d := &Deleter{Client: rm, Confirm: answer(true), Alert: al, Profile: ref}

	if got := d.Delete(context.Background(), "m1", "c1"); got != Rejected {
		t.Fatalf("outcome = %v, want Rejected", got)
	}
	if len(al.messages) != 1 || al.messages[0] != "Error: Measurement not found" {
		t.Errorf("alerts = %v", al.messages)
	}
	if len(ref.loaded) != 0 {
		t.Errorf("rejected delete refreshed profile")
	}
}

func TestDeleteTransportErrorAlertsGeneric(t *testing.T) {
	rm := &fakeRemover{err: errors.New("connection reset")}
	al := &alerts{}
	d := &Deleter{Client: rm, Confirm: answer(true), Alert: al}

	if got := d.Delete(context.Background(), "m1", "c1"); got != Failed {
		t.Fatalf("outcome = %v, want Failed", got)
	}
	if len(al.messages) != 1 || al.messages[0] != GenericError {
		t.Errorf("alerts = %v", al.messages)
	}
}
