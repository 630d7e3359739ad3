package sqlinline

const QEnqueueOutbox = `--sql 860e4518-4917-4fce-a572-aa17f56f76b1
insert into notification_outbox (idempotency_key, channel, event, user_id, deep_link, params, status, attempts, next_attempt_at, created_at, updated_at)
values ($1::text, $2::text, $3::text, $4::uuid, $5::text, coalesce($6::jsonb, '{}'::jsonb), 'PENDING', 0, now(), now(), now())
on conflict (idempotency_key) do nothing;
`

const QClaimOutbox = `--sql 32477462-6ce9-457f-922f-9f908be7181c
with due as (
    select id
    from notification_outbox
    where status in ('PENDING', 'SENDING')
      and next_attempt_at <= now()
    order by next_attempt_at asc, id asc
    limit $1::int
    for update skip locked
)
update notification_outbox o
set status = 'SENDING',
    attempts = o.attempts + 1,
    next_attempt_at = now() + make_interval(secs => $2::double precision),
    updated_at = now()
from due
where o.id = due.id
returning o.id, o.idempotency_key, o.channel, o.event, o.user_id::text, o.deep_link, o.params, o.attempts, o.created_at;
`

const QMarkOutboxSent = `--sql 54e534d1-68da-40d9-acbc-ac9450132cd1
update notification_outbox
set status = 'SENT', last_error = null, updated_at = now()
where id = $1::bigint;
`

const QRetryOutbox = `--sql 4cf4da0d-3427-47ba-b8cb-674ac0d33ba9
update notification_outbox
set status = 'PENDING', last_error = $2::text, next_attempt_at = $3::timestamptz, updated_at = now()
where id = $1::bigint;
`

const QBuryOutbox = `--sql c3ceab55-ec97-4a1e-9fde-cc0a054a7b67
update notification_outbox
set status = 'DEAD', last_error = $2::text, updated_at = now()
where id = $1::bigint;
`

const QRequeueDeadOutbox = `--sql e431f7ba-8661-4f4b-b774-b69a658f76b3
update notification_outbox
set status = 'PENDING', attempts = 0, next_attempt_at = now(), updated_at = now()
where status = 'DEAD';
`

const QInsertInAppNotification = `--sql 993df445-0b02-4899-ac6f-d17641ec0120
insert into notifications (user_id, title, body, deep_link, idempotency_key, created_at)
values ($1::uuid, $2::text, $3::text, $4::text, $5::text, now())
on conflict (idempotency_key) do nothing;
`

const QListNotifications = `--sql 147fb219-2f5d-4f6a-a350-95024f8bfc9b
select id, user_id::text, title, body, deep_link, read_at, created_at
from notifications
where user_id = $1::uuid
  and (not $2::boolean or read_at is null)
order by created_at desc, id desc
limit $3::int;
`

const QMarkNotificationRead = `--sql 2ebd9fde-507c-4a5a-a734-ff165d3d5cbf
update notifications
set read_at = coalesce(read_at, now())
where id = $1::bigint
  and user_id = $2::uuid;
`
