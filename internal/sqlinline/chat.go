package sqlinline

const QMarkMessagesViewed = `--sql 68fc1524-c6ba-43ba-ae47-11d0b9468ddc
insert into global_chat_viewers (message, user_id, viewed_at)
select m.id, $1::uuid, now()
from global_chat m
where m.id = any($2::bigint[])
  and m.sender <> $1::uuid
on conflict (message, user_id) do nothing;
`

const QListMessageViewers = `--sql daca779a-1a76-463c-adc7-8ab0cec20257
select v.message, v.user_id::text, p.full_name, v.viewed_at
from global_chat_viewers v
join profiles p on p.id = v.user_id
where v.message = $1::bigint
order by v.viewed_at asc;
`
