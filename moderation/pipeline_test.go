package moderation

import (
	"context"
	"errors"
	"testing"
	"time"

	"automod-bot/model"
)

type fakeClassifier struct {
	calls  int
	result model.ClassificationResult
}

func (f *fakeClassifier) Classify(ctx context.Context, text string) model.ClassificationResult {
	f.calls++
	result := f.result
	result.OriginalText = text
	return result
}

type fakeLedger struct {
	records   map[string]*model.InfractionRecord
	sanctions []model.SanctionRecord
	getErr    error
	saveErr   error
	saves     int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{records: make(map[string]*model.InfractionRecord)}
}

func (f *fakeLedger) GetRecord(guildID, userID string) (*model.InfractionRecord, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.records[guildID+":"+userID], nil
}

func (f *fakeLedger) SaveRecord(rec *model.InfractionRecord) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.records[rec.GuildID+":"+rec.UserID] = rec
	return nil
}

func (f *fakeLedger) AppendSanction(record model.SanctionRecord) (int64, error) {
	f.sanctions = append(f.sanctions, record)
	return int64(len(f.sanctions)), nil
}

type fakeEffects struct {
	deletes      int
	notices      int
	directs      int
	staffAlerts  int
	mutes        []time.Duration
	deleteErr    error
	directErr    error
	lastDecision model.PunishmentDecision
}

func (f *fakeEffects) DeleteMessage(channelID, messageID string) error {
	f.deletes++
	return f.deleteErr
}

func (f *fakeEffects) SendChannelNotice(channelID, authorID, reason string, tier model.Tier) error {
	f.notices++
	return nil
}

func (f *fakeEffects) SendDirectNotice(authorID, reason string, tier model.Tier) error {
	f.directs++
	return f.directErr
}

func (f *fakeEffects) SendStaffAlert(msg Message, rec *model.InfractionRecord, decision model.PunishmentDecision, reason string) error {
	f.staffAlerts++
	f.lastDecision = decision
	return nil
}

func (f *fakeEffects) ApplyMute(guildID, authorID string, duration time.Duration) error {
	f.mutes = append(f.mutes, duration)
	return nil
}

func testConfig() model.AutomodConfig {
	return model.AutomodConfig{
		Enabled:             true,
		DeleteMessage:       true,
		NotifyUser:          true,
		NotifyChannel:       true,
		MinMessageLength:    5,
		ApplySanctions:      true,
		WhitelistedUsers:    []string{"saint"},
		WhitelistedRoles:    []string{"role-trusted"},
		WhitelistedChannels: []string{"chan-free"},
		ModeratorRoleIDs:    []string{"role-mod"},
	}
}

func testMessage() Message {
	return Message{
		ID:             "msg-1",
		AuthorID:       "user-1",
		AuthorUsername: "offender",
		Content:        "a perfectly long enough message",
		ChannelID:      "chan-1",
		GuildID:        "guild-1",
		Timestamp:      time.Now(),
	}
}

func newTestPipeline(t *testing.T, cfg model.AutomodConfig, classifier *fakeClassifier, ledger *fakeLedger, effects *fakeEffects) *Pipeline {
	t.Helper()
	source := func(guildID string) (model.AutomodConfig, bool) {
		return cfg, true
	}
	return New(source, classifier, ledger, effects)
}

func filteringClassifier(explanation string) *fakeClassifier {
	return &fakeClassifier{result: model.ClassificationResult{ShouldFilter: true, Explanation: explanation}}
}

func allowingClassifier() *fakeClassifier {
	return &fakeClassifier{result: model.ClassificationResult{ShouldFilter: false}}
}

func TestPipelineDisabledGuild(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	classifier := filteringClassifier("harassment")
	p := newTestPipeline(t, cfg, classifier, newFakeLedger(), &fakeEffects{})

	if p.Process(context.Background(), testMessage()) {
		t.Error("expected message to pass when moderation is disabled")
	}
	if classifier.calls != 0 {
		t.Errorf("classifier must not be invoked when disabled, got %d calls", classifier.calls)
	}
}

func TestPipelineAdmissionShortCircuits(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Message)
	}{
		{"bot author", func(m *Message) { m.AuthorIsBot = true }},
		{"short message", func(m *Message) { m.Content = "abc" }},
		{"whitelisted user", func(m *Message) { m.AuthorID = "saint" }},
		{"whitelisted channel", func(m *Message) { m.ChannelID = "chan-free" }},
		{"whitelisted role", func(m *Message) { m.RoleIDs = []string{"role-trusted"} }},
		{"moderator role", func(m *Message) { m.RoleIDs = []string{"role-mod"} }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			classifier := filteringClassifier("harassment")
			ledger := newFakeLedger()
			p := newTestPipeline(t, testConfig(), classifier, ledger, &fakeEffects{})

			msg := testMessage()
			tc.mutate(&msg)

			if p.Process(context.Background(), msg) {
				t.Error("expected exempted message to be allowed")
			}
			if classifier.calls != 0 {
				t.Errorf("classifier must not be invoked for exempted messages, got %d calls", classifier.calls)
			}
			if ledger.saves != 0 {
				t.Error("ledger must not be touched for exempted messages")
			}
		})
	}
}

func TestPipelineAllowedMessageTouchesNothing(t *testing.T) {
	ledger := newFakeLedger()
	effects := &fakeEffects{}
	p := newTestPipeline(t, testConfig(), allowingClassifier(), ledger, effects)

	if p.Process(context.Background(), testMessage()) {
		t.Error("expected allowed result")
	}
	if ledger.saves != 0 || len(ledger.sanctions) != 0 {
		t.Error("ledger must stay untouched for allowed messages")
	}
	if effects.deletes != 0 || effects.notices != 0 || effects.directs != 0 {
		t.Error("no side effects expected for allowed messages")
	}
}

// Scenario: a user with two prior light infractions posts another light
// one; the third crosses the threshold into a 120-minute mute.
func TestPipelineLeveEscalationToMute(t *testing.T) {
	ledger := newFakeLedger()
	prior := model.NewInfractionRecord("guild-1", "user-1")
	prior.Counts[model.TierLeve] = 2
	ledger.records["guild-1:user-1"] = prior

	effects := &fakeEffects{}
	p := newTestPipeline(t, testConfig(), filteringClassifier("light profanity"), ledger, effects)

	if !p.Process(context.Background(), testMessage()) {
		t.Fatal("expected message to be filtered")
	}

	rec := ledger.records["guild-1:user-1"]
	if rec.Counts[model.TierLeve] != 3 {
		t.Errorf("expected leve count 3, got %d", rec.Counts[model.TierLeve])
	}
	if rec.Mutes != 1 {
		t.Errorf("expected one mute tallied, got %d", rec.Mutes)
	}
	if effects.staffAlerts != 1 {
		t.Fatalf("expected one staff alert, got %d", effects.staffAlerts)
	}
	if effects.lastDecision.Kind != model.KindMute {
		t.Errorf("expected mute decision, got %s", effects.lastDecision.Kind)
	}
	if effects.lastDecision.MuteDuration != 120*time.Minute {
		t.Errorf("expected 120m mute, got %s", effects.lastDecision.MuteDuration)
	}
	if len(effects.mutes) != 1 || effects.mutes[0] != 120*time.Minute {
		t.Errorf("expected mute applied for 120m, got %v", effects.mutes)
	}
}

// Scenario: a first-time offender posts extreme content; the decision is
// an immediate pending ban and the ban is not executed automatically.
func TestPipelineExtremaFirstOffense(t *testing.T) {
	ledger := newFakeLedger()
	effects := &fakeEffects{}
	p := newTestPipeline(t, testConfig(), filteringClassifier("illegal content"), ledger, effects)

	if !p.Process(context.Background(), testMessage()) {
		t.Fatal("expected message to be filtered")
	}

	rec := ledger.records["guild-1:user-1"]
	if rec == nil {
		t.Fatal("expected a record to be created lazily")
	}
	if rec.Counts[model.TierExtrema] != 1 {
		t.Errorf("expected extrema count 1, got %d", rec.Counts[model.TierExtrema])
	}
	if effects.lastDecision.Kind != model.KindBanPending {
		t.Errorf("expected ban-pending, got %s", effects.lastDecision.Kind)
	}
	if !effects.lastDecision.RequiresStaffReview {
		t.Error("ban-pending must require staff review")
	}
	if len(effects.mutes) != 0 {
		t.Error("ban-pending must not apply any sanction automatically")
	}
	if effects.staffAlerts != 1 {
		t.Errorf("expected one staff alert, got %d", effects.staffAlerts)
	}
}

func TestPipelineRecordInvariants(t *testing.T) {
	ledger := newFakeLedger()
	p := newTestPipeline(t, testConfig(), filteringClassifier("insulting remarks"), ledger, &fakeEffects{})

	msg := testMessage()
	p.Process(context.Background(), msg)

	rec := ledger.records["guild-1:user-1"]
	if len(rec.History) != 1 {
		t.Fatalf("expected exactly one history entry, got %d", len(rec.History))
	}
	if rec.LastInfraction == nil || *rec.LastInfraction != rec.History[0] {
		t.Error("lastInfraction must be the most recent history entry")
	}
	if rec.History[0].ChannelID != msg.ChannelID {
		t.Errorf("history entry must carry the origin channel, got %q", rec.History[0].ChannelID)
	}
	if rec.Warnings != 1 {
		t.Errorf("first grave infraction is a warning, got %d warnings", rec.Warnings)
	}
}

func TestPipelineSanctionAudit(t *testing.T) {
	ledger := newFakeLedger()
	p := newTestPipeline(t, testConfig(), filteringClassifier("harassment"), ledger, &fakeEffects{})

	p.Process(context.Background(), testMessage())

	if len(ledger.sanctions) != 1 {
		t.Fatalf("expected one sanction row, got %d", len(ledger.sanctions))
	}
	sanction := ledger.sanctions[0]
	if sanction.Tier != string(model.TierGrave) {
		t.Errorf("expected grave tier in audit row, got %s", sanction.Tier)
	}
	if sanction.Kind != string(model.KindWarning) {
		t.Errorf("expected warning kind in audit row, got %s", sanction.Kind)
	}
	if sanction.Status != "active" {
		t.Errorf("expected active status, got %s", sanction.Status)
	}
}

func TestPipelineSideEffectFailuresAreIsolated(t *testing.T) {
	ledger := newFakeLedger()
	effects := &fakeEffects{
		deleteErr: errors.New("missing permission"),
		directErr: errors.New("user has DMs disabled"),
	}
	p := newTestPipeline(t, testConfig(), filteringClassifier("harassment"), ledger, effects)

	if !p.Process(context.Background(), testMessage()) {
		t.Fatal("expected message to be filtered despite side effect failures")
	}
	if ledger.saves != 1 {
		t.Error("escalation must still persist when delete or DM fails")
	}
	if effects.notices != 1 {
		t.Error("channel notice must still be sent when delete fails")
	}
}

func TestPipelinePersistenceFailureDoesNotCrash(t *testing.T) {
	ledger := newFakeLedger()
	ledger.getErr = errors.New("disk exploded")
	effects := &fakeEffects{}
	p := newTestPipeline(t, testConfig(), filteringClassifier("harassment"), ledger, effects)

	if !p.Process(context.Background(), testMessage()) {
		t.Error("expected message to still report filtered on ledger failure")
	}
	if effects.staffAlerts != 0 {
		t.Error("no staff alert without a decision")
	}
	if len(ledger.sanctions) != 0 {
		t.Error("no sanction row when the record cannot be loaded")
	}
}

func TestPipelineSaveFailureStillAlerts(t *testing.T) {
	ledger := newFakeLedger()
	ledger.saveErr = errors.New("disk full")
	effects := &fakeEffects{}
	p := newTestPipeline(t, testConfig(), filteringClassifier("illegal content"), ledger, effects)

	p.Process(context.Background(), testMessage())

	// The infraction event is lost but the remaining substeps still run.
	if effects.staffAlerts != 1 {
		t.Errorf("expected staff alert despite save failure, got %d", effects.staffAlerts)
	}
	if len(ledger.sanctions) != 1 {
		t.Errorf("expected sanction row despite save failure, got %d", len(ledger.sanctions))
	}
}

func TestPipelineSanctionsNotAppliedWhenDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.ApplySanctions = false

	ledger := newFakeLedger()
	prior := model.NewInfractionRecord("guild-1", "user-1")
	prior.Counts[model.TierLeve] = 2
	ledger.records["guild-1:user-1"] = prior

	effects := &fakeEffects{}
	p := newTestPipeline(t, cfg, filteringClassifier("light profanity"), ledger, effects)

	p.Process(context.Background(), testMessage())

	if len(effects.mutes) != 0 {
		t.Error("mute must not be applied when applySanctions is off")
	}
	if effects.staffAlerts != 1 {
		t.Error("staff alert is still expected when applySanctions is off")
	}
}

func TestPipelineUnknownGuildAllowed(t *testing.T) {
	source := func(guildID string) (model.AutomodConfig, bool) {
		return model.AutomodConfig{}, false
	}
	classifier := filteringClassifier("harassment")
	p := New(source, classifier, newFakeLedger(), &fakeEffects{})

	if p.Process(context.Background(), testMessage()) {
		t.Error("expected messages from unconfigured guilds to pass")
	}
	if classifier.calls != 0 {
		t.Error("classifier must not run for unconfigured guilds")
	}
}
