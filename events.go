package ddnsreg

import (
	"encoding/json"
	"strconv"
	"sync"

	"github.com/openddns/ddnsreg/schema"
	"github.com/panjf2000/ants/v2"
)

func formatInt(i int64) string { return strconv.FormatInt(i, 10) }

func formatUint(u uint64) string { return strconv.FormatUint(u, 10) }

// runNotifier consumes terminal call results in commit order: records the
// third submission phase, mirrors events and receipts into the audit db,
// drops stale cache entries and fans events out to kafka.
func (r *Registrar) runNotifier() {
	type kafkaMsg struct {
		key  string
		body []byte
	}
	var wg sync.WaitGroup
	pool, _ := ants.NewPoolWithFunc(10, func(i interface{}) {
		defer wg.Done()
		msg := i.(kafkaMsg)
		if err := r.kafka.Write(msg.key, msg.body); err != nil {
			log.Error("kafka publish failed", "err", err)
		}
	})
	defer pool.Release()

	for res := range r.ledger.Results() {
		r.finalizeSubmission(res)

		if r.kafka == nil {
			continue
		}
		for _, ev := range res.Events {
			body, err := json.Marshal(ev)
			if err != nil {
				log.Error("marshal event", "err", err, "type", ev.Type)
				continue
			}
			wg.Add(1)
			_ = pool.Invoke(kafkaMsg{key: ev.Type, body: body})
		}
	}
	wg.Wait()
}

func (r *Registrar) finalizeSubmission(res CallResult) {
	if res.Err != nil {
		metricCall(res.Action, res.Err)
		if err := r.wdb.UpdateSubmission(res.SubmissionId, schema.SubmissionFailed, res.Err.Error(), res.LedgerTime); err != nil {
			log.Error("update failed submission", "err", err, "id", res.SubmissionId)
		}
		return
	}

	metricCall(res.Action, nil)
	if err := r.wdb.UpdateSubmission(res.SubmissionId, schema.SubmissionConfirmed, "", res.LedgerTime); err != nil {
		log.Error("update confirmed submission", "err", err, "id", res.SubmissionId)
	}

	evRecords := make([]schema.EventRecord, 0, len(res.Events))
	for _, ev := range res.Events {
		attrs, err := json.Marshal(ev.Attrs)
		if err != nil {
			log.Error("marshal event attrs", "err", err, "type", ev.Type)
			continue
		}
		evRecords = append(evRecords, schema.EventRecord{
			SubmissionId: res.SubmissionId,
			Type:         ev.Type,
			LedgerTime:   ev.LedgerTime,
			Attrs:        string(attrs),
		})

		switch ev.Type {
		case schema.EventReceipt:
			seq, _ := strconv.ParseUint(ev.Attrs["seq"], 10, 64)
			if err := r.wdb.InsertReceipt(schema.ReceiptQueryRecord{
				Payer:      ev.Attrs["receiver"],
				Seq:        seq,
				DomainName: ev.Attrs["domainName"],
				AmountPaid: ev.Attrs["amountPaid"],
				TimeBought: ev.LedgerTime,
			}); err != nil {
				log.Error("mirror receipt", "err", err, "id", res.SubmissionId)
			}
		case schema.EventNewDomain, schema.EventDomainRenewed, schema.EventDomainEdited, schema.EventOwnershipTransferred:
			r.cache.DelDomain(schema.DomainKey(ev.Attrs["domainName"], ev.Attrs["topLevelDomain"]))
		}
	}
	if len(evRecords) > 0 {
		if err := r.wdb.InsertEvents(evRecords); err != nil {
			log.Error("mirror events", "err", err, "id", res.SubmissionId)
		}
	}
}
