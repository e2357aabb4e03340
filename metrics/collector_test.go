package metrics

import "testing"

func TestCollectorCountsPerDriver(t *testing.T) {
	c := New()
	c.OpenHit("mysql")
	c.OpenHit("mysql")
	c.OpenMiss("mysql")
	c.FindHit("redis")
	c.Evict("mysql")

	snap := c.Snapshot()

	mysql, ok := snap["mysql"]
	if !ok {
		t.Fatal("expected mysql entry in snapshot")
	}
	if mysql.OpenHits != 2 || mysql.OpenMisses != 1 || mysql.Evictions != 1 {
		t.Fatalf("unexpected mysql stats: %+v", mysql)
	}

	redis, ok := snap["redis"]
	if !ok {
		t.Fatal("expected redis entry in snapshot")
	}
	if redis.FindHits != 1 {
		t.Fatalf("unexpected redis stats: %+v", redis)
	}
}

func TestCollectorUnseenDriverAbsentFromSnapshot(t *testing.T) {
	c := New()
	if _, ok := c.Snapshot()["nope"]; ok {
		t.Fatal("expected no entry for a driver never recorded against")
	}
}
