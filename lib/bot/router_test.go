// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bureau-foundation/stockroom/lib/authorization"
	"github.com/bureau-foundation/stockroom/lib/command"
	"github.com/bureau-foundation/stockroom/lib/conversation"
	"github.com/bureau-foundation/stockroom/lib/inventory"
)

func TestNewRouterRequiresCollaborators(t *testing.T) {
	if _, err := NewRouter(Config{}); err == nil {
		t.Fatal("NewRouter with empty config succeeded")
	}
}

func TestStartForStranger(t *testing.T) {
	h := newHarness(t, testAdmin)
	response := h.send(testStranger, "/start")
	if response.Err != nil {
		t.Fatalf("Err = %v", response.Err)
	}
	reply := requireSingleReply(t, response)
	if reply.Text != textWelcome {
		t.Errorf("Text = %q, want welcome", reply.Text)
	}
	if len(reply.Buttons) != 2 {
		t.Fatalf("got %d category rows, want 2", len(reply.Buttons))
	}
	if reply.Buttons[0][0].Text != "T-shirt" || reply.Buttons[0][0].Selection != "category:T-shirt" {
		t.Errorf("first button = %+v", reply.Buttons[0][0])
	}
}

func TestStartForAdminShowsControlsFirst(t *testing.T) {
	h := newHarness(t, testAdmin)
	response := h.send(testAdmin, "/start")
	if len(response.Replies) != 2 {
		t.Fatalf("got %d replies, want 2", len(response.Replies))
	}
	controls := response.Replies[0]
	if controls.Text != textAdminControls {
		t.Errorf("first reply = %q, want admin controls", controls.Text)
	}
	if controls.Buttons[0][0].Selection != "add_admin" || controls.Buttons[1][0].Selection != "remove_admin" {
		t.Errorf("control buttons = %+v", controls.Buttons)
	}
	if response.Replies[1].Text != textWelcome {
		t.Errorf("second reply = %q, want welcome", response.Replies[1].Text)
	}
}

func TestCommandForOtherBotIsIgnored(t *testing.T) {
	h := newHarness(t, testAdmin)
	response := h.send(testAdmin, "/start@other_bot")
	if len(response.Replies) != 0 || response.Err != nil {
		t.Errorf("response = %+v, want empty", response)
	}
	response = h.send(testAdmin, "/start@StockRoom_Bot")
	if len(response.Replies) != 2 {
		t.Errorf("addressed /start got %d replies, want 2", len(response.Replies))
	}
}

func TestUnknownCommandIsSilent(t *testing.T) {
	h := newHarness(t, testAdmin)
	response := h.send(testAdmin, "/help")
	if len(response.Replies) != 0 || response.Err != nil {
		t.Errorf("response = %+v, want empty", response)
	}
}

func TestCategorySelectionEditsIntoProductList(t *testing.T) {
	h := newHarness(t)
	reply := requireSingleReply(t, h.press(testStranger, "category:Shirt"))
	if reply.Kind != ReplyEdit {
		t.Errorf("Kind = %s, want edit", reply.Kind)
	}
	if reply.Text != categoryTitle("Shirt") {
		t.Errorf("Text = %q", reply.Text)
	}
	var selections []string
	for _, row := range reply.Buttons {
		selections = append(selections, row[0].Selection)
	}
	if strings.Join(selections, ",") != "product:Formal,product:Casual" {
		t.Errorf("selections = %v", selections)
	}
}

func TestUnknownCategorySelection(t *testing.T) {
	h := newHarness(t)
	response := h.press(testStranger, "category:Hats")
	if Classify(response.Err) != OutcomeMalformed {
		t.Errorf("outcome = %s, want malformed", response.Outcome())
	}
	if reply := requireSingleReply(t, response); reply.Text != textUnknownCategory {
		t.Errorf("Text = %q", reply.Text)
	}
}

func TestMalformedSelectionIsSilent(t *testing.T) {
	h := newHarness(t)
	response := h.press(testStranger, "garbage")
	if len(response.Replies) != 0 {
		t.Errorf("got replies %q, want none", replyTexts(response))
	}
	if !errors.Is(response.Err, command.ErrMalformedRequest) {
		t.Errorf("Err = %v, want malformed", response.Err)
	}
}

func TestProductSelectionShowsStatus(t *testing.T) {
	tests := []struct {
		quantity int64
		status   string
	}{
		{0, "❌ out of stock"},
		{1, "🟠 low"},
		{5, "🟠 low"},
		{6, "🟢 plentiful"},
	}
	for _, test := range tests {
		h := newHarness(t, testAdmin)
		if test.quantity > 0 {
			if _, err := h.ledger.Adjust(context.Background(), "Formal", test.quantity); err != nil {
				t.Fatalf("Adjust: %v", err)
			}
		}
		reply := requireSingleReply(t, h.press(testStranger, "product:Formal"))
		if reply.Kind != ReplyText {
			t.Errorf("quantity %d: Kind = %s, want text", test.quantity, reply.Kind)
		}
		want := productCard("Formal", test.quantity)
		if reply.Text != want {
			t.Errorf("quantity %d: Text = %q, want %q", test.quantity, reply.Text, want)
		}
		if !strings.HasSuffix(reply.Text, test.status) {
			t.Errorf("quantity %d: Text %q does not end in %q", test.quantity, reply.Text, test.status)
		}
	}
}

func TestProductSelectionWithImage(t *testing.T) {
	h := newHarness(t, testAdmin)
	image := []byte("\xff\xd8 jpeg")
	if _, err := h.images.Put("Casual", image); err != nil {
		t.Fatalf("Put: %v", err)
	}
	reply := requireSingleReply(t, h.press(testStranger, "product:Casual"))
	if reply.Kind != ReplyPhoto {
		t.Fatalf("Kind = %s, want photo", reply.Kind)
	}
	if string(reply.Image) != string(image) {
		t.Errorf("Image = %q", reply.Image)
	}
	if reply.Text != productCard("Casual", 0) {
		t.Errorf("caption = %q", reply.Text)
	}
}

func TestAddAndSell(t *testing.T) {
	h := newHarness(t, testAdmin)

	reply := requireSingleReply(t, h.send(testAdmin, "/add Formal - 5"))
	if reply.Text != addedText("Formal", 5, 5) {
		t.Errorf("add reply = %q", reply.Text)
	}

	reply = requireSingleReply(t, h.send(testAdmin, "/sell Formal - 3"))
	if reply.Text != soldText("Formal", 3, 2) {
		t.Errorf("sell reply = %q", reply.Text)
	}
	if !strings.Contains(reply.Text, "(low)") {
		t.Errorf("sell reply %q does not report low stock", reply.Text)
	}

	response := h.send(testAdmin, "/sell Formal - 5")
	if response.Outcome() != OutcomeInsufficientStock {
		t.Errorf("outcome = %s, want insufficient_stock", response.Outcome())
	}
	if h.ledger.QuantityOf("Formal") != 2 {
		t.Errorf("quantity after rejected sale = %d, want 2", h.ledger.QuantityOf("Formal"))
	}
	if quantity, _ := h.backend.persistedQuantity("Formal"); quantity != 2 {
		t.Errorf("persisted quantity = %d, want 2", quantity)
	}
}

func TestAddHyphenatedProduct(t *testing.T) {
	h := newHarness(t, testAdmin)
	h.send(testAdmin, "/add   T-shirt   -  7")
	if got := h.ledger.QuantityOf("T-shirt"); got != 7 {
		t.Errorf("T-shirt quantity = %d, want 7", got)
	}
}

func TestAdjustRequiresAuthorization(t *testing.T) {
	h := newHarness(t, testAdmin)
	for _, text := range []string{"/add Formal - 5", "/sell Formal - 1", "/stock", "/operators", "/cancel", "/update_image Formal"} {
		response := h.send(testStranger, text)
		if response.Outcome() != OutcomePermissionDenied {
			t.Errorf("%s: outcome = %s, want permission_denied", text, response.Outcome())
		}
		if reply := requireSingleReply(t, response); reply.Text != textPermissionDenied {
			t.Errorf("%s: reply = %q", text, reply.Text)
		}
	}
	if h.ledger.Len() != 0 {
		t.Errorf("ledger has %d entries after denied requests", h.ledger.Len())
	}
}

func TestMalformedAdjustments(t *testing.T) {
	h := newHarness(t, testAdmin)
	for _, text := range []string{
		"/add",
		"/add Formal 5",
		"/add Formal - 0",
		"/add Formal - -5",
		"/sell Formal - abc",
		"/add  - 5",
	} {
		response := h.send(testAdmin, text)
		if response.Outcome() != OutcomeMalformed {
			t.Errorf("%q: outcome = %s, want malformed", text, response.Outcome())
			continue
		}
		reply := requireSingleReply(t, response)
		if !strings.HasPrefix(reply.Text, "❗ Invalid format") {
			t.Errorf("%q: reply = %q", text, reply.Text)
		}
	}
	if h.ledger.Len() != 0 {
		t.Errorf("ledger has %d entries after malformed requests", h.ledger.Len())
	}
}

func TestAdjustPersistenceFailure(t *testing.T) {
	h := newHarness(t, testAdmin)
	h.send(testAdmin, "/add Formal - 5")
	h.backend.setFailWrite(errors.New("disk full"))

	response := h.send(testAdmin, "/sell Formal - 1")
	if response.Outcome() != OutcomeFailure {
		t.Errorf("outcome = %s, want failure", response.Outcome())
	}
	if reply := requireSingleReply(t, response); reply.Text != textFailure {
		t.Errorf("reply = %q", reply.Text)
	}
	if got := h.ledger.QuantityOf("Formal"); got != 5 {
		t.Errorf("quantity after failed save = %d, want 5", got)
	}
}

func TestUpdateImage(t *testing.T) {
	h := newHarness(t, testAdmin)
	photo := Bytes("photo bytes")

	response := h.router.Handle(context.Background(), Event{
		Kind: EventMessage, Operator: testAdmin, Text: "/update_image Round   Neck", Attachment: photo,
	})
	if reply := requireSingleReply(t, response); reply.Text != imageStoredText("Round Neck", false) {
		t.Errorf("reply = %q", reply.Text)
	}
	if data, err := h.images.Get("Round Neck"); err != nil || string(data) != "photo bytes" {
		t.Errorf("stored image = %q, %v", data, err)
	}

	response = h.router.Handle(context.Background(), Event{
		Kind: EventMessage, Operator: testAdmin, Text: "/update_image Round Neck", Attachment: photo,
	})
	if reply := requireSingleReply(t, response); reply.Text != imageStoredText("Round Neck", true) {
		t.Errorf("repeat reply = %q", reply.Text)
	}
}

func TestUpdateImageWithoutPhoto(t *testing.T) {
	h := newHarness(t, testAdmin)
	response := h.send(testAdmin, "/update_image Formal")
	if response.Outcome() != OutcomeMalformed {
		t.Errorf("outcome = %s, want malformed", response.Outcome())
	}
}

type failingAttachment struct{}

func (failingAttachment) Fetch(context.Context) ([]byte, error) {
	return nil, errors.New("download failed")
}

func TestUpdateImageFetchFailure(t *testing.T) {
	h := newHarness(t, testAdmin)
	response := h.router.Handle(context.Background(), Event{
		Kind: EventMessage, Operator: testAdmin, Text: "/update_image Formal", Attachment: failingAttachment{},
	})
	if response.Outcome() != OutcomeFailure {
		t.Errorf("outcome = %s, want failure", response.Outcome())
	}
}

func TestFind(t *testing.T) {
	h := newHarness(t)
	reply := requireSingleReply(t, h.send(testStranger, "/find neck"))
	var products []string
	for _, row := range reply.Buttons {
		products = append(products, row[0].Text)
	}
	if len(products) != 2 {
		t.Fatalf("products = %v, want the two neck styles", products)
	}
	for _, product := range products {
		if !strings.Contains(product, "Neck") {
			t.Errorf("unexpected match %q", product)
		}
	}

	reply = requireSingleReply(t, h.send(testStranger, "/find zzzz"))
	if len(reply.Buttons) != 0 || reply.Text != searchResultsText("zzzz", 0) {
		t.Errorf("no-match reply = %+v", reply)
	}

	if response := h.send(testStranger, "/find"); response.Outcome() != OutcomeMalformed {
		t.Errorf("empty query outcome = %s", response.Outcome())
	}
}

func TestStockAndOperatorLists(t *testing.T) {
	h := newHarness(t, testAdmin)
	if reply := requireSingleReply(t, h.send(testAdmin, "/stock")); reply.Text != textLedgerEmpty {
		t.Errorf("empty stock = %q", reply.Text)
	}
	h.send(testAdmin, "/add Casual - 9")
	reply := requireSingleReply(t, h.send(testAdmin, "/stock"))
	if !strings.Contains(reply.Text, "Casual: 9 pcs (plentiful)") {
		t.Errorf("stock = %q", reply.Text)
	}
	reply = requireSingleReply(t, h.send(testAdmin, "/operators"))
	if !strings.Contains(reply.Text, testAdmin.String()) {
		t.Errorf("operators = %q", reply.Text)
	}
}

func TestGrantFlow(t *testing.T) {
	h := newHarness(t, testAdmin)

	reply := requireSingleReply(t, h.press(testAdmin, "add_admin"))
	if reply.Kind != ReplyText || reply.Text != promptText(conversation.Grant) {
		t.Errorf("prompt = %+v", reply)
	}

	response := h.send(testAdmin, "abc")
	if response.Outcome() != OutcomeMalformed {
		t.Errorf("non-numeric outcome = %s", response.Outcome())
	}
	if reply := requireSingleReply(t, response); reply.Text != invalidOperatorIDText(conversation.Grant) {
		t.Errorf("re-prompt = %q", reply.Text)
	}
	if pending, ok := h.conversations.Peek(testAdmin); !ok || pending.Action != conversation.Grant {
		t.Fatalf("pending = %+v, %v; want grant still pending", pending, ok)
	}

	reply = requireSingleReply(t, h.send(testAdmin, " 2000 "))
	if reply.Text != grantedText(testStranger) {
		t.Errorf("grant reply = %q", reply.Text)
	}
	if !h.registry.IsAuthorized(testStranger) {
		t.Error("stranger not authorized after grant")
	}
	if _, ok := h.conversations.Peek(testAdmin); ok {
		t.Error("action still pending after grant")
	}

	// Free text with nothing pending is ignored.
	if response := h.send(testAdmin, "2000"); len(response.Replies) != 0 {
		t.Errorf("stray follow-up got %q", replyTexts(response))
	}
}

func TestGrantExistingAdmin(t *testing.T) {
	h := newHarness(t, testAdmin, testStranger)
	h.press(testAdmin, "add_admin")
	if reply := requireSingleReply(t, h.send(testAdmin, "2000")); reply.Text != textAlreadyAdmin {
		t.Errorf("reply = %q", reply.Text)
	}
}

func TestRevokeFlow(t *testing.T) {
	h := newHarness(t, testAdmin, testStranger)
	h.press(testAdmin, "remove_admin")
	if reply := requireSingleReply(t, h.send(testAdmin, "2000")); reply.Text != revokedText(testStranger) {
		t.Errorf("reply = %q", reply.Text)
	}
	if h.registry.IsAuthorized(testStranger) {
		t.Error("stranger still authorized after revoke")
	}
	want := []authorization.OperatorID{testAdmin}
	if got := h.backend.persistedOperators(); len(got) != 1 || got[0] != want[0] {
		t.Errorf("persisted = %v, want %v", got, want)
	}

	h.press(testAdmin, "remove_admin")
	if reply := requireSingleReply(t, h.send(testAdmin, "2000")); reply.Text != textNotAdmin {
		t.Errorf("second revoke reply = %q", reply.Text)
	}
}

func TestSelfRevokeIsAllowed(t *testing.T) {
	h := newHarness(t, testAdmin)
	h.press(testAdmin, "remove_admin")
	h.send(testAdmin, "1000")
	if h.registry.IsAuthorized(testAdmin) {
		t.Error("admin still authorized after removing themselves")
	}
	if response := h.send(testAdmin, "/add Formal - 1"); response.Outcome() != OutcomePermissionDenied {
		t.Errorf("outcome after self-revoke = %s", response.Outcome())
	}
}

func TestUnauthorizedAdminButton(t *testing.T) {
	h := newHarness(t, testAdmin)
	response := h.press(testStranger, "add_admin")
	if response.Outcome() != OutcomePermissionDenied {
		t.Errorf("outcome = %s", response.Outcome())
	}
	reply := requireSingleReply(t, response)
	if reply.Kind != ReplyEdit || reply.Text != textPermissionDenied {
		t.Errorf("reply = %+v", reply)
	}
	if h.conversations.Len() != 0 {
		t.Error("stranger has a pending action")
	}
}

func TestFollowUpAfterRevocationIsDropped(t *testing.T) {
	h := newHarness(t, testAdmin, testStranger)
	h.press(testStranger, "add_admin")

	// Another admin removes the stranger while their grant is pending.
	if _, err := h.registry.Revoke(context.Background(), testStranger); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	response := h.send(testStranger, "3000")
	if len(response.Replies) != 0 {
		t.Errorf("got replies %q, want none", replyTexts(response))
	}
	if response.Outcome() != OutcomePermissionDenied {
		t.Errorf("outcome = %s", response.Outcome())
	}
	if h.registry.IsAuthorized(3000) {
		t.Error("revoked operator granted access")
	}
	if _, ok := h.conversations.Peek(testStranger); !ok {
		t.Error("pending action was cleared")
	}
}

func TestGrantPersistenceFailureKeepsPending(t *testing.T) {
	h := newHarness(t, testAdmin)
	h.press(testAdmin, "add_admin")
	h.backend.setFailWrite(errors.New("read-only filesystem"))

	response := h.send(testAdmin, "2000")
	if response.Outcome() != OutcomeFailure {
		t.Errorf("outcome = %s", response.Outcome())
	}
	if h.registry.IsAuthorized(testStranger) {
		t.Error("grant applied despite failed save")
	}
	if _, ok := h.conversations.Peek(testAdmin); !ok {
		t.Error("pending action cleared after failed save")
	}

	h.backend.setFailWrite(nil)
	if reply := requireSingleReply(t, h.send(testAdmin, "2000")); reply.Text != grantedText(testStranger) {
		t.Errorf("retry reply = %q", reply.Text)
	}
}

func TestBeginReplacesPendingAction(t *testing.T) {
	h := newHarness(t, testAdmin, testStranger)
	h.press(testAdmin, "add_admin")
	h.press(testAdmin, "remove_admin")
	if reply := requireSingleReply(t, h.send(testAdmin, "2000")); reply.Text != revokedText(testStranger) {
		t.Errorf("reply = %q, want revoke", reply.Text)
	}
}

func TestCancel(t *testing.T) {
	h := newHarness(t, testAdmin)
	if reply := requireSingleReply(t, h.send(testAdmin, "/cancel")); reply.Text != textNothingToCancel {
		t.Errorf("reply = %q", reply.Text)
	}
	h.press(testAdmin, "add_admin")
	if reply := requireSingleReply(t, h.send(testAdmin, "/cancel")); reply.Text != cancelledText(conversation.Grant) {
		t.Errorf("reply = %q", reply.Text)
	}
	if h.conversations.Len() != 0 {
		t.Error("action still pending after cancel")
	}
}

func TestCommandsDuringPendingActionAreServed(t *testing.T) {
	h := newHarness(t, testAdmin)
	h.press(testAdmin, "add_admin")
	h.send(testAdmin, "/add Formal - 2")
	if got := h.ledger.QuantityOf("Formal"); got != 2 {
		t.Errorf("quantity = %d, want 2", got)
	}
	if _, ok := h.conversations.Peek(testAdmin); !ok {
		t.Error("command cleared the pending action")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, OutcomeOK},
		{&command.MalformedRequestError{Command: "add", Reason: "x"}, OutcomeMalformed},
		{&inventory.InsufficientStockError{Product: "Formal"}, OutcomeInsufficientStock},
		{authorization.ErrPermissionDenied, OutcomePermissionDenied},
		{errors.New("disk"), OutcomeFailure},
	}
	for _, test := range tests {
		if got := Classify(test.err); got != test.want {
			t.Errorf("Classify(%v) = %s, want %s", test.err, got, test.want)
		}
	}
}
