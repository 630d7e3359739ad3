package sqlinline

const QSelectDonationForUpdate = `--sql bf85c748-d9c2-48b8-a71a-ff636851e77c
select id, amount, fundraising, donor::text, message, donated_at, screenshot, is_anonymous, reference_number
from donations
where id = $1::bigint
for update;
`

const QDeleteDonation = `--sql 49e1597b-ecf5-4a5d-a336-4e29b79539ab
delete from donations
where id = $1::bigint;
`

const QInsertDonation = `--sql 21e0ed13-8863-4521-a7f2-a3907a94a57d
insert into donations (amount, fundraising, donor, message, donated_at, screenshot, is_anonymous, reference_number, created_at)
values ($1::numeric, $2::bigint, nullif($3::text, '')::uuid, $4::text, coalesce($5::timestamptz, now()), $6::text, $7::boolean, $8::text, now())
returning id, amount, fundraising, donor::text, message, donated_at, screenshot, is_anonymous, reference_number;
`

const QListDonationsByCampaign = `--sql 92056076-1677-4502-a5d6-223553c59211
select id, amount, fundraising, donor::text, message, donated_at, screenshot, is_anonymous, reference_number
from donations
where fundraising = $1::bigint
order by donated_at desc, id desc
limit $2::int offset $3::int;
`
