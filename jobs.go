package ddnsreg

import (
	"fmt"
	"sync"

	"github.com/openddns/ddnsreg/schema"
	"github.com/panjf2000/ants/v2"
)

func (r *Registrar) runJobs() {
	r.scheduler.Every(1).Minute().SingletonMode().Do(r.updateStateMetrics)
	r.scheduler.Every(5).Minutes().SingletonMode().Do(r.archiveEvents)

	r.scheduler.StartAsync()
}

func (r *Registrar) updateStateMetrics() {
	err := r.store.View(func(tx *StateTx) error {
		t, err := tx.Treasury()
		if err != nil {
			return err
		}
		metricTreasuryBalance(t.Balance)
		metricDomainTotal(tx.DomainCount())
		return nil
	})
	if err != nil {
		log.Error("update state metrics", "err", err)
	}
}

// archiveEvents copies committed audit events into the cold archive and
// marks them off, batch by batch.
func (r *Registrar) archiveEvents() {
	evs, err := r.wdb.GetUnarchivedEvents(200)
	if err != nil {
		log.Error("load unarchived events", "err", err)
		return
	}
	if len(evs) == 0 {
		return
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		done = make([]uint, 0, len(evs))
	)
	p, _ := ants.NewPoolWithFunc(10, func(i interface{}) {
		defer wg.Done()
		ev := i.(schema.EventRecord)
		key := archiveEventKey(ev)
		if err := r.archive.Put(schema.ArchiveEventBucket, key, []byte(ev.Attrs)); err != nil {
			log.Error("archive event", "err", err, "key", key)
			return
		}
		mu.Lock()
		done = append(done, ev.ID)
		mu.Unlock()
	})
	defer p.Release()

	for _, ev := range evs {
		wg.Add(1)
		_ = p.Invoke(ev)
	}
	wg.Wait()

	if err := r.wdb.MarkEventsArchived(done); err != nil {
		log.Error("mark events archived", "err", err)
	} else if len(done) > 0 {
		log.Debug("archived events", "number", len(done))
	}
}

func archiveEventKey(ev schema.EventRecord) string {
	return fmt.Sprintf("%s-%s-%d", ev.Type, ev.SubmissionId, ev.ID)
}
